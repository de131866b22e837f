// Command xhr sends requests through the xhr client and prints the
// classified response, and reads positions from a JSON location endpoint.
//
// Usage:
//
//	xhr get http://localhost:8000/api/test -d '{"x":"1"}'
//	xhr post http://localhost:8000/api/test --json -f body.yaml
//	xhr request DELETE /api/test --base-url http://localhost:8000
//	xhr locate --endpoint http://localhost:9000/fix
//	xhr watch --endpoint http://localhost:9000/fix --interval 1s
//
// Defaults come from the XHR_* and GEO_* environment variables.
package main
