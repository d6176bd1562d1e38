// Package extract scans TypeScript source for Fastify route
// registrations and turns them into route descriptors.
//
// The scan is textual: a regex locates receiver.method( sites, then the
// call's balanced-parenthesis span is probed for the path literal, the
// options object (schema, config.rateLimit, auth hooks), the handler
// argument, and the JSDoc block above the call. This trades exactness
// for zero toolchain dependencies; route files written in the ordinary
// plugin style are extracted faithfully.
package extract

//go:generate gomarkdoc --output README.md .
