package mcp

import "fmt"

// argumentsMap returns the tool arguments as a map. mcp-go decodes them
// from JSON, so numbers arrive as float64.
func argumentsMap(arguments any) (map[string]interface{}, error) {
	if arguments == nil {
		return map[string]interface{}{}, nil
	}
	argsMap, ok := arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return argsMap, nil
}

// parseStringArg extracts a string argument from an MCP arguments map.
// Returns an error if the argument is required but missing or invalid.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// parseIntArg returns defaultVal if the argument is missing or not a number.
func parseIntArg(argsMap map[string]interface{}, key string, defaultVal int) int {
	if f, ok := argsMap[key].(float64); ok {
		return int(f)
	}
	return defaultVal
}

// parseBoolArg returns defaultVal if the argument is missing or not a bool.
func parseBoolArg(argsMap map[string]interface{}, key string, defaultVal bool) bool {
	if b, ok := argsMap[key].(bool); ok {
		return b
	}
	return defaultVal
}

// parseClampedInt extracts an integer argument and clamps it to [min, max].
func parseClampedInt(argsMap map[string]interface{}, key string, defaultVal, min, max int) int {
	val := parseIntArg(argsMap, key, defaultVal)
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
