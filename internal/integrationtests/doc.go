// Package integrationtests runs the whole application against HCL graph
// definitions and JSON-lines records.
package integrationtests
