package gql

import (
	domainUser "people-graphql-api/internal/domain/user"

	"github.com/graphql-go/graphql"
)

var userRoleEnum = newUserRoleEnum()

func newUserRoleEnum() *graphql.Enum {
	values := graphql.EnumValueConfigMap{}
	for _, role := range domainUser.Roles {
		values[string(role)] = &graphql.EnumValueConfig{Value: string(role)}
	}
	return graphql.NewEnum(graphql.EnumConfig{
		Name:   "UserRole",
		Values: values,
	})
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"avatar":   &graphql.Field{Type: graphql.String},
		"role":     &graphql.Field{Type: userRoleEnum},
		"dialCode": &graphql.Field{Type: graphql.String},
		"phone":    &graphql.Field{Type: graphql.String},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"userId":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"userRole":             &graphql.Field{Type: userRoleEnum},
		"token":                &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"tokenExpirationHours": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"tokenExpiration": &graphql.Field{
			Type:              graphql.NewNonNull(graphql.Int),
			DeprecationReason: "Use tokenExpirationHours.",
		},
	},
})

var createUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"avatar":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"role": &graphql.InputObjectFieldConfig{
			Type:         userRoleEnum,
			DefaultValue: string(domainUser.RoleUser),
		},
		"dialCode": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"phone":    &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var updateUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"avatar":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"dialCode": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"phone":    &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var updateUserRoleInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateUserRoleInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"role": &graphql.InputObjectFieldConfig{Type: userRoleEnum},
	},
})

var idArgs = graphql.FieldConfigArgument{
	"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
}

// NewSchema builds the executable schema with r's resolvers bound to it.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"listUser": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(userType)),
				Resolve: r.ListUser,
			},
			"getUser": &graphql.Field{
				Type:    userType,
				Args:    idArgs,
				Resolve: r.GetUser,
			},
			"loginUser": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.LoginUser,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"getOtp": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.GetOTP,
			},
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInput)},
				},
				Resolve: r.CreateUser,
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateUserInput)},
				},
				Resolve: r.UpdateUser,
			},
			"updateUserRole": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateUserRoleInput)},
				},
				Resolve: r.UpdateUserRole,
			},
			"deleteUser": &graphql.Field{
				Type:    userType,
				Args:    idArgs,
				Resolve: r.DeleteUser,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
