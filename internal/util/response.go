package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}

// Rows wraps collection endpoint payloads, single rows included, under "data".
func Rows(value any) Envelope {
	return Envelope{"data": value}
}

func Success() Envelope {
	return Envelope{"success": true}
}
