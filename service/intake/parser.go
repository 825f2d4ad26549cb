package intake

import (
	"fmt"
	"strconv"

	"github.com/viant/dispatchor"
	"github.com/viant/parsly"
)

// Parse parses the console intake format
func Parse(input []byte) (*Document, error) {
	p := &parser{cursor: parsly.NewCursor("intake", input, 0)}
	return p.parse()
}

type parser struct {
	cursor *parsly.Cursor
}

func (p *parser) parse() (*Document, error) {
	services, err := p.integer("number of services")
	if err != nil {
		return nil, err
	}
	threads, err := p.integer("number of threads per service")
	if err != nil {
		return nil, err
	}
	ret := &Document{Config: *dispatchor.DefaultConfig()}
	for i := 0; i < services; i++ {
		service := dispatchor.ServiceConfig{}
		for j := 0; j < threads; j++ {
			priority, err := p.integer(fmt.Sprintf("priority of service %d thread %d", i, j))
			if err != nil {
				return nil, err
			}
			capacity, err := p.integer(fmt.Sprintf("resources of service %d thread %d", i, j))
			if err != nil {
				return nil, err
			}
			service.Workers = append(service.Workers, dispatchor.WorkerConfig{Priority: priority, Capacity: capacity})
		}
		ret.Services = append(ret.Services, service)
	}
	total, err := p.integer("total number of requests")
	if err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, fmt.Errorf("invalid total number of requests: %d", total)
	}
	for i := 0; i < total; i++ {
		service, err := p.integer(fmt.Sprintf("type of request %d", i))
		if err != nil {
			return nil, err
		}
		demand, err := p.integer(fmt.Sprintf("resources of request %d", i))
		if err != nil {
			return nil, err
		}
		ret.Requests = append(ret.Requests, RequestSpec{Service: service, Demand: demand})
	}
	p.cursor.MatchOne(whitespaceToken)
	if p.cursor.HasMore() {
		return nil, fmt.Errorf("unexpected content after %d requests at position %d", total, p.cursor.Pos)
	}
	return ret, nil
}

func (p *parser) integer(name string) (int, error) {
	matched := p.cursor.MatchAfterOptional(whitespaceToken, integerToken)
	switch matched.Code {
	case integerCode:
	case parsly.EOF:
		return 0, fmt.Errorf("missing %v: unexpected end of input", name)
	default:
		return 0, fmt.Errorf("invalid %v: %w", name, p.cursor.NewError(integerToken))
	}
	text := matched.Text(p.cursor)
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid %v %q: %w", name, text, err)
	}
	return value, nil
}
