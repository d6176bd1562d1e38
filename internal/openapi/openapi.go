package openapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/synclab/postsync/pkg/errors"
	"github.com/synclab/postsync/pkg/routes"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

// SecurityScheme is the component name routes protected by the auth hook
// are secured with.
const SecurityScheme = "bearerAuth"

// methodRank fixes the order operations are attached in, so documents
// built from the same route list come out identical.
var methodRank = map[routes.Method]int{
	routes.MethodGet:     0,
	routes.MethodPost:    1,
	routes.MethodPut:     2,
	routes.MethodPatch:   3,
	routes.MethodDelete:  4,
	routes.MethodOptions: 5,
	routes.MethodHead:    6,
}

// Build renders the route list as an OpenAPI 3 document. Each FullPath
// becomes a path item with :param segments rewritten to {param}; each
// route becomes an operation named after its handler, tagged with its
// display group, with path parameters, response stubs and, for protected
// routes, a bearer security requirement.
func Build(rts []routes.Route, title, version string) (*openapi3.T, error) {
	if title == "" {
		title = "API"
	}
	if version == "" {
		version = "1.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Components: &openapi3.Components{
			Schemas:         make(openapi3.Schemas),
			SecuritySchemes: make(openapi3.SecuritySchemes),
		},
		Paths: &openapi3.Paths{},
	}

	ordered := make([]routes.Route, len(rts))
	copy(ordered, rts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].FullPath != ordered[j].FullPath {
			return ordered[i].FullPath < ordered[j].FullPath
		}
		return methodRank[ordered[i].Method] < methodRank[ordered[j].Method]
	})

	protected := false
	for _, rt := range ordered {
		if err := rt.Validate(); err != nil {
			return nil, errors.Errorf("route %s: %w", rt.UniqueID(), err)
		}
		if rt.IsProtected() {
			protected = true
		}

		path := oasPath(rt.FullPath)
		item := doc.Paths.Find(path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(path, item)
		}
		item.SetOperation(rt.Method.String(), operation(rt))
	}

	if protected {
		doc.Components.SecuritySchemes[SecurityScheme] = &openapi3.SecuritySchemeRef{
			Value: openapi3.NewJWTSecurityScheme(),
		}
	}

	return doc, nil
}

// operation builds the OpenAPI operation for one route.
func operation(rt routes.Route) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = rt.HandlerName
	op.Summary = routes.EntryName(rt)
	op.Description = rt.Description
	op.Tags = []string{routes.GroupName(rt)}

	for _, name := range pathParams(rt.FullPath) {
		op.AddParameter(&openapi3.Parameter{
			Name:     name,
			In:       openapi3.ParameterInPath,
			Required: true,
			Schema:   openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		})
	}

	okDesc := rt.Description
	if okDesc == "" {
		okDesc = "Successful response"
	}
	responses := openapi3.NewResponses(openapi3.WithStatus(http.StatusOK,
		&openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(okDesc)}))

	if rt.Method == routes.MethodPost {
		responses.Set("201", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(http.StatusText(http.StatusCreated)),
		})
	}

	if rt.Schema != nil && len(rt.Schema.Response) > 0 {
		codes := make([]int, 0, len(rt.Schema.Response))
		for code := range rt.Schema.Response {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			key := strconv.Itoa(code)
			if responses.Value(key) != nil {
				continue
			}
			desc := http.StatusText(code)
			if desc == "" {
				desc = "Response"
			}
			responses.Set(key, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription(desc),
			})
		}
	}
	op.Responses = responses

	if rt.IsProtected() {
		op.Security = openapi3.NewSecurityRequirements().
			With(openapi3.NewSecurityRequirement().Authenticate(SecurityScheme))
	}

	return op
}

// oasPath rewrites Fastify :param segments into OpenAPI {param} form.
func oasPath(fullPath string) string {
	segments := strings.Split(fullPath, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

// pathParams returns the :param names of a path, in order.
func pathParams(fullPath string) []string {
	var names []string
	for _, seg := range strings.Split(fullPath, "/") {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			names = append(names, seg[1:])
		}
	}
	return names
}
