// Package mocks provides function-field mocks of the service interfaces for
// handler and router tests.
//
// Each mock has one Fn field per method. Unset fields return the zero value
// of the result plus Err, so a test only wires the calls it cares about:
//
//	contents := &mocks.MockContentService{
//	    GetFn: func(ctx context.Context, user *domain.User, id string) (*domain.Content, error) {
//	        return content, nil
//	    },
//	}
package mocks
