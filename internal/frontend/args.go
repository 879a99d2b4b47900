package frontend

import "github.com/mark3labs/mcp-go/mcp"

func stringArg(req mcp.CallToolRequest, name, def string) string {
	return req.GetString(name, def)
}

func boolArg(req mcp.CallToolRequest, name string, def bool) bool {
	return req.GetBool(name, def)
}

func intArg(req mcp.CallToolRequest, name string, def int) int {
	return req.GetInt(name, def)
}

func floatArg(req mcp.CallToolRequest, name string, def float64) float64 {
	return req.GetFloat(name, def)
}

func stringSliceArg(req mcp.CallToolRequest, name string) []string {
	return req.GetStringSlice(name, []string{})
}

func mapArg(req mcp.CallToolRequest, name string) map[string]any {
	if v, ok := req.GetArguments()[name].(map[string]any); ok {
		return v
	}
	return nil
}
