package httpapi

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshop/docs"
)

var ginParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocListsEveryRoute(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	e := setupServer(t, Options{})
	routes := e.server.Engine().Routes()
	require.NotEmpty(t, routes)

	documented := 0
	for _, r := range routes {
		if strings.HasPrefix(r.Path, "/swagger/") {
			continue
		}
		path := ginParam.ReplaceAllString(r.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "path %s not documented", path) {
			continue
		}
		assert.Contains(t, ops, strings.ToLower(r.Method), "%s %s not documented", r.Method, path)
		documented++
	}

	total := 0
	for _, ops := range doc.Paths {
		total += len(ops)
	}
	assert.Equal(t, total, documented, "documented operations without a route")
}
