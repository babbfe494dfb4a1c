package errors

// Error codes for the sol2ink translator
// These codes are used in diagnostics and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// E0001-E0099: Expression and constant errors
// E0100-E0199: Frontend (parser) errors
// E0400-E0499: Contract structure errors
// W0800-W0899: Warning codes

const (
	// E0018: Numeric overflow while folding a constant expression
	ErrorNumericOverflow = "E0018"

	// E0100: Source could not be parsed
	ErrorSyntax = "E0100"

	// Contract structure errors (E0400-E0499). All of these are fatal to
	// the translation of the contract that raised them.

	// E0400: Two storage fields share a name after flattening
	ErrorFieldCollision = "E0400"

	// E0401: An inherited contract could not be resolved
	ErrorUnresolvedBase = "E0401"

	// E0402: A node with no translation
	ErrorUnsupportedNode = "E0402"

	// E0403: Two externally visible functions share a name
	ErrorOverloadedMessage = "E0403"

	// E0404: A type that cannot cross the message boundary
	ErrorInvalidMessageType = "E0404"

	// E0405: The storage layout no longer extends the recorded one
	ErrorLayoutDrift = "E0405"

	// E0406: Integer narrowing under strict diagnostics
	ErrorNarrowing = "E0406"

	// E0407: A type name that resolves to nothing
	ErrorUnresolvedType = "E0407"

	// Warning codes

	// W0800: Integer wider than the target's native width
	WarningNarrowing = "W0800"

	// W0801: More topic fields than the target allows
	WarningTopicLimit = "W0801"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorNumericOverflow:
		return "Constant expression overflows its integer type"
	case ErrorSyntax:
		return "Source could not be parsed"
	case ErrorFieldCollision:
		return "Storage field name declared by more than one contract in the inheritance chain"
	case ErrorUnresolvedBase:
		return "Inherited contract is not defined"
	case ErrorUnsupportedNode:
		return "Construct has no translation"
	case ErrorOverloadedMessage:
		return "Externally visible function is overloaded"
	case ErrorInvalidMessageType:
		return "Type cannot be used in a message signature"
	case ErrorLayoutDrift:
		return "Storage layout changed incompatibly since it was recorded"
	case ErrorNarrowing:
		return "Integer type is wider than the target supports"
	case ErrorUnresolvedType:
		return "Type name is not defined"
	case WarningNarrowing:
		return "Integer type narrowed to the target's native width"
	case WarningTopicLimit:
		return "Event declares more topics than the target allows"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code == "":
		return "Unknown"
	case code[0] == 'W':
		return "Warning"
	case code >= "E0001" && code < "E0100":
		return "Expression"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0400" && code < "E0500":
		return "Contract"
	default:
		return "Unknown"
	}
}
