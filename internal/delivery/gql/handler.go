package gql

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"people-graphql-api/internal/middleware"
	"people-graphql-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/handler"
)

// Handler serves GraphQL over HTTP. The request context, including the
// identity set by the auth middleware, is passed to every resolver.
type Handler struct {
	http *handler.Handler
}

// NewHandler wraps schema in an HTTP handler. The in-browser playground is
// served to GET requests from browsers when playground is true.
func NewHandler(schema *graphql.Schema, playground bool) *Handler {
	return &Handler{
		http: handler.New(&handler.Config{
			Schema:     schema,
			Pretty:     true,
			GraphiQL:   false,
			Playground: playground,
		}),
	}
}

func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET(middleware.GraphQLPath, h.Serve)
	router.POST(middleware.GraphQLPath, h.Serve)
}

func (h *Handler) Serve(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.GraphQLErrorResponse(c, http.StatusRequestEntityTooLarge, middleware.CodePayloadTooLarge, "request body too large")
				return
			}
			utils.GraphQLErrorResponse(c, http.StatusBadRequest, middleware.CodeBadRequest, "failed to read request body")
			return
		}
	}

	// The options parser consumes the body, so each reader gets a fresh copy.
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if op, ok := describeOperation(handler.NewRequestOptions(c.Request)); ok {
		middleware.SetGraphQLOperation(c, op)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	h.http.ContextHandler(c.Request.Context(), c.Writer, c.Request)
}

// describeOperation finds the operation opts will execute and lists its root fields.
func describeOperation(opts *handler.RequestOptions) (middleware.GraphQLOperation, bool) {
	if opts == nil || opts.Query == "" {
		return middleware.GraphQLOperation{}, false
	}

	doc, err := parser.Parse(parser.ParseParams{Source: opts.Query})
	if err != nil {
		return middleware.GraphQLOperation{}, false
	}

	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		var name string
		if op.Name != nil {
			name = op.Name.Value
		}
		if opts.OperationName != "" && name != opts.OperationName {
			continue
		}

		described := middleware.GraphQLOperation{Type: op.Operation, Name: name}
		if op.SelectionSet != nil {
			for _, sel := range op.SelectionSet.Selections {
				if field, ok := sel.(*ast.Field); ok && field.Name != nil {
					described.Fields = append(described.Fields, field.Name.Value)
				}
			}
		}
		return described, true
	}

	return middleware.GraphQLOperation{}, false
}
