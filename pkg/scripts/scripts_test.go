package scripts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synclab/postsync/pkg/routes"
	"github.com/synclab/postsync/pkg/scripts"
)

func TestTestScriptAlwaysAssertsStatus(t *testing.T) {
	lines := scripts.Generator{}.TestScript(routes.Route{
		Method:   routes.MethodGet,
		Path:     "/users",
		FullPath: "/api/users",
	})

	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, `pm.test("Status code is 200", function () {`, lines[0])
	assert.Equal(t, `    pm.response.to.have.status(200);`, lines[1])
	assert.Equal(t, `});`, lines[2])
	assert.Equal(t, ``, lines[3])
	assert.NotContains(t, lines, `pm.test("Response has correct structure", function () {`)
}

func TestTestScriptStructureAssertion(t *testing.T) {
	r := routes.Route{
		Method:   routes.MethodGet,
		Path:     "/users",
		FullPath: "/api/users",
		Schema: &routes.Schema{
			Response: map[int]*routes.SchemaObject{
				200: {Type: "object"},
			},
		},
	}

	lines := scripts.Generator{}.TestScript(r)
	assert.Contains(t, lines, `pm.test("Response has correct structure", function () {`)
	assert.Contains(t, lines, `    pm.expect(jsonData).to.be.an("object");`)

	r.Schema.Response = map[int]*routes.SchemaObject{404: {Type: "object"}}
	lines = scripts.Generator{}.TestScript(r)
	assert.NotContains(t, lines, `pm.test("Response has correct structure", function () {`,
		"only a 200 response schema triggers the shape assertion")
}

func TestTestScriptTokenCapture(t *testing.T) {
	lines := scripts.Generator{}.TestScript(routes.Route{
		Method:   routes.MethodPost,
		Path:     "/auth/token",
		FullPath: "/api/auth/token",
	})

	assert.Contains(t, lines, `pm.test("Response contains token", function () {`)
	assert.Contains(t, lines, `    pm.expect(jsonData).to.have.property("token");`)
	assert.Contains(t, lines, `    pm.collectionVariables.set("jwtToken", jsonData.token);`)
	assert.NotContains(t, lines, `pm.test("Resource created successfully", function () {`)
}

func TestTestScriptGenericPost(t *testing.T) {
	lines := scripts.Generator{}.TestScript(routes.Route{
		Method:   routes.MethodPost,
		Path:     "/users",
		FullPath: "/api/users",
	})

	assert.Contains(t, lines, `pm.test("Resource created successfully", function () {`)
	assert.Contains(t, lines, `    pm.expect(pm.response.code).to.be.oneOf([200, 201]);`)
	assert.NotContains(t, lines, `pm.test("Response contains token", function () {`)
}

func TestTestScriptHealthCheck(t *testing.T) {
	lines := scripts.Generator{}.TestScript(routes.Route{
		Method:   routes.MethodGet,
		Path:     "/health",
		FullPath: "/api/health",
	})
	assert.Contains(t, lines, `pm.test("Service is healthy", function () {`)
	assert.Contains(t, lines, `    pm.expect(jsonData.status).to.eql("ok");`)

	// The health assertion is a GET behavior.
	lines = scripts.Generator{}.TestScript(routes.Route{
		Method:   routes.MethodPost,
		Path:     "/health",
		FullPath: "/api/health",
	})
	assert.NotContains(t, lines, `pm.test("Service is healthy", function () {`)
}

func TestAuthScript(t *testing.T) {
	expected := []string{
		"// Auto-generated: Add JWT authorization header",
		`const token = pm.collectionVariables.get("jwtToken");`,
		"",
		"if (token) {",
		"    pm.request.headers.add({",
		`        key: "Authorization",`,
		"        value: `Bearer ${token}`",
		"    });",
		"} else {",
		`    console.warn("JWT token not found. Generate token first.");`,
		"}",
	}
	assert.Equal(t, expected, scripts.Generator{}.AuthScript())
}
