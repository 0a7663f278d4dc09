// Package client wraps the users REST endpoint. Every operation is a single
// HTTP round trip against one configurable base URL:
//
//	GET    {base}       list
//	POST   {base}       create
//	PUT    {base}/{id}  update
//	DELETE {base}/{id}  delete
//
// Non-2xx responses are returned as *StatusError rather than being decoded as
// if they had succeeded.
package client

import (
	"context"

	"github.com/goliatone/go-userform/pkg/model"
)

// UserClient is the contract the form controller depends on.
type UserClient interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, id model.ID, user model.User) (model.User, error)
	Delete(ctx context.Context, id model.ID) error
}
