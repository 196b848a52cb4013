package checks

// ConfigurationError is returned when a check is configured with options
// that cannot be applied together or do not match the dataset
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}
