package utils

import "github.com/gin-gonic/gin"

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// GraphQLError is one entry of the errors list in a GraphQL response.
type GraphQLError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

type GraphQLResponse struct {
	Errors []GraphQLError `json:"errors"`
}

// GraphQLErrorResponse writes a request-level GraphQL error with code in extensions.
func GraphQLErrorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, GraphQLResponse{
		Errors: []GraphQLError{{
			Message:    message,
			Extensions: map[string]interface{}{"code": code},
		}},
	})
}
