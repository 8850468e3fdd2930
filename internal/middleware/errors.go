package middleware

import (
	"people-graphql-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GraphQLPath is where the GraphQL endpoint is mounted.
const GraphQLPath = "/graphql"

// Request-level error codes, reported in extensions.code on the GraphQL endpoint.
const (
	CodeRateLimited     = "RATE_LIMITED"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeBadRequest      = "BAD_REQUEST"
)

// AbortWithError ends the request before it reaches a handler. GraphQL clients
// get an errors list; other routes get the JSON envelope.
func AbortWithError(c *gin.Context, status int, code, message string) {
	if c.Request.URL.Path == GraphQLPath {
		utils.GraphQLErrorResponse(c, status, code, message)
	} else {
		utils.ErrorResponse(c, status, message)
	}
	c.Abort()
}

// GraphQLOperation describes what a GraphQL request asked for.
type GraphQLOperation struct {
	Type   string
	Name   string
	Fields []string
}

const graphQLOperationKey = "graphql_operation"

// SetGraphQLOperation records op for the access log.
func SetGraphQLOperation(c *gin.Context, op GraphQLOperation) {
	c.Set(graphQLOperationKey, op)
}

func graphQLOperationOf(c *gin.Context) (GraphQLOperation, bool) {
	v, ok := c.Get(graphQLOperationKey)
	if !ok {
		return GraphQLOperation{}, false
	}
	op, ok := v.(GraphQLOperation)
	return op, ok
}
