package app

type classifiedError struct {
	Category  string
	Retryable bool
}

var errorCodeClasses = map[string]classifiedError{
	"usage_error":           {Category: "usage", Retryable: false},
	"validation_error":      {Category: "usage", Retryable: false},
	"parse_error":           {Category: "usage", Retryable: false},
	"io_error":              {Category: "runtime", Retryable: false},
	"config_missing":        {Category: "config", Retryable: false},
	"config_error":          {Category: "config", Retryable: false},
	"confirmation_required": {Category: "safety", Retryable: false},
	"safety_blocked":        {Category: "safety", Retryable: false},
	"insecure_transport":    {Category: "safety", Retryable: false},
	"doctor_prereq_failed":  {Category: "config", Retryable: false},
	"smtp_unreachable":      {Category: "transient", Retryable: true},
	"send_failed":           {Category: "transient", Retryable: true},
}

func classifyCLIError(code string, exit int) classifiedError {
	if c, ok := errorCodeClasses[code]; ok {
		return c
	}
	switch exit {
	case 2:
		return classifiedError{Category: "usage", Retryable: false}
	case 3:
		return classifiedError{Category: "config", Retryable: false}
	case 4:
		return classifiedError{Category: "transient", Retryable: true}
	case 7:
		return classifiedError{Category: "safety", Retryable: false}
	default:
		return classifiedError{Category: "runtime", Retryable: false}
	}
}
