package gql

import (
	"context"
	usecaseUser "people-graphql-api/internal/usecase/user"
	appErrors "people-graphql-api/pkg/errors"

	"github.com/go-viper/mapstructure/v2"
	"github.com/graphql-go/graphql"
)

// UserService is the use case surface the resolvers call into.
type UserService interface {
	ListUsers(ctx context.Context) ([]*usecaseUser.UserResponse, error)
	GetUser(ctx context.Context, userID string) (*usecaseUser.UserResponse, error)
	Login(ctx context.Context, req *usecaseUser.LoginRequest) (*usecaseUser.AuthPayload, error)
	RequestOTP(ctx context.Context, email string) (string, error)
	Register(ctx context.Context, req *usecaseUser.CreateUserRequest) (*usecaseUser.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, req *usecaseUser.UpdateUserRequest) (*usecaseUser.UserResponse, error)
	UpdateUserRole(ctx context.Context, userID string, req *usecaseUser.UpdateUserRoleRequest) (*usecaseUser.UserResponse, error)
	DeleteUser(ctx context.Context, userID string) (*usecaseUser.UserResponse, error)
}

type Resolver struct {
	users UserService
}

func NewResolver(users UserService) *Resolver {
	return &Resolver{users: users}
}

func (r *Resolver) ListUser(p graphql.ResolveParams) (interface{}, error) {
	users, err := r.users.ListUsers(p.Context)
	if err != nil {
		return nil, toGraphQLError(p.Context, "listUser", err)
	}
	return users, nil
}

func (r *Resolver) GetUser(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	return userResult(p.Context, "getUser")(r.users.GetUser(p.Context, id))
}

func (r *Resolver) LoginUser(p graphql.ResolveParams) (interface{}, error) {
	var req usecaseUser.LoginRequest
	if err := decodeArgs(p.Args, &req); err != nil {
		return nil, toGraphQLError(p.Context, "loginUser", err)
	}

	payload, err := r.users.Login(p.Context, &req)
	if err != nil {
		return nil, toGraphQLError(p.Context, "loginUser", err)
	}
	return payload, nil
}

func (r *Resolver) GetOTP(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)

	msg, err := r.users.RequestOTP(p.Context, email)
	if err != nil {
		return nil, toGraphQLError(p.Context, "getOtp", err)
	}
	return msg, nil
}

func (r *Resolver) CreateUser(p graphql.ResolveParams) (interface{}, error) {
	var req usecaseUser.CreateUserRequest
	if err := decodeArgs(p.Args["input"], &req); err != nil {
		return nil, toGraphQLError(p.Context, "createUser", err)
	}
	return userResult(p.Context, "createUser")(r.users.Register(p.Context, &req))
}

func (r *Resolver) UpdateUser(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)

	var req usecaseUser.UpdateUserRequest
	if err := decodeArgs(p.Args["input"], &req); err != nil {
		return nil, toGraphQLError(p.Context, "updateUser", err)
	}
	return userResult(p.Context, "updateUser")(r.users.UpdateUser(p.Context, id, &req))
}

func (r *Resolver) UpdateUserRole(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)

	var req usecaseUser.UpdateUserRoleRequest
	if err := decodeArgs(p.Args["input"], &req); err != nil {
		return nil, toGraphQLError(p.Context, "updateUserRole", err)
	}
	return userResult(p.Context, "updateUserRole")(r.users.UpdateUserRole(p.Context, id, &req))
}

func (r *Resolver) DeleteUser(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	return userResult(p.Context, "deleteUser")(r.users.DeleteUser(p.Context, id))
}

// userResult adapts a use case result so that a missing user resolves to null.
func userResult(ctx context.Context, operation string) func(*usecaseUser.UserResponse, error) (interface{}, error) {
	return func(u *usecaseUser.UserResponse, err error) (interface{}, error) {
		if err != nil {
			return nil, toGraphQLError(ctx, operation, err)
		}
		if u == nil {
			return nil, nil
		}
		return u, nil
	}
}

func decodeArgs(input interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return appErrors.Validation("invalid input", err)
	}
	return nil
}
