// Package scripts generates the default event hooks attached to
// synchronized entries: a test script asserting the expected response
// shape, and a prerequest script that injects the stored JWT bearer token
// for protected routes.
package scripts

import (
	"strings"

	"github.com/synclab/postsync/pkg/routes"
)

// Generator produces hook script lines for routes. It is stateless; the
// zero value is ready to use.
type Generator struct{}

var structureLines = []string{
	`pm.test("Response has correct structure", function () {`,
	`    var jsonData = pm.response.json();`,
	`    pm.expect(jsonData).to.be.an("object");`,
	`});`,
	``,
}

var tokenLines = []string{
	`pm.test("Response contains token", function () {`,
	`    var jsonData = pm.response.json();`,
	`    pm.expect(jsonData).to.have.property("token");`,
	`});`,
	``,
	`// Save token to collection variable`,
	`if (pm.response.code === 200) {`,
	`    var jsonData = pm.response.json();`,
	`    pm.collectionVariables.set("jwtToken", jsonData.token);`,
	`}`,
	``,
}

var createdLines = []string{
	`pm.test("Resource created successfully", function () {`,
	`    pm.expect(pm.response.code).to.be.oneOf([200, 201]);`,
	`});`,
	``,
}

var healthLines = []string{
	`pm.test("Service is healthy", function () {`,
	`    var jsonData = pm.response.json();`,
	`    pm.expect(jsonData.status).to.eql("ok");`,
	`});`,
	``,
}

// TestScript returns the default test hook for a route, one element per
// script line. Every script asserts a 200 status. Routes declaring a 200
// response schema also get a shape assertion; POSTs to token paths capture
// the returned token into the jwtToken collection variable, other POSTs
// accept 200 or 201; GETs on health paths assert the body status field.
func (Generator) TestScript(r routes.Route) []string {
	lines := []string{
		`pm.test("Status code is 200", function () {`,
		`    pm.response.to.have.status(200);`,
		`});`,
		``,
	}

	if r.Schema.HasResponse(200) {
		lines = append(lines, structureLines...)
	}

	switch r.Method {
	case routes.MethodPost:
		if strings.Contains(strings.ToLower(r.Path), "token") {
			lines = append(lines, tokenLines...)
		} else {
			lines = append(lines, createdLines...)
		}
	case routes.MethodGet:
		if strings.Contains(strings.ToLower(r.Path), "health") {
			lines = append(lines, healthLines...)
		}
	}

	return lines
}

// AuthScript returns the prerequest hook that attaches the stored JWT as a
// bearer header. Without a stored token the request goes out unmodified
// and the remote API rejects it.
func (Generator) AuthScript() []string {
	return []string{
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
}
