// Package intake loads a dispatcher setup together with the requests to
// submit. YAML and JSON documents are decoded as is; any other content is
// read in the whitespace separated console format:
//
//	services threadsPerService
//	priority capacity   (services x threadsPerService times)
//	total
//	service demand      (total times)
package intake
