package criteria

import (
	"github.com/viant/dispatchor/service/dao"
)

// FilterByState reports whether state matches the State parameter, if any
func FilterByState(state string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter.Name != "State" {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			return state == actual
		case []string:
			for _, s := range actual {
				if state == s {
					return true
				}
			}
			return false
		}
	}
	return true
}
