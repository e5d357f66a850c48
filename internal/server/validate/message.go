package validate

const FieldContent = "content"

// NewMessage returns the trimmed message content.
func NewMessage(raw Raw) (string, error) {
	if err := missingFields(raw, FieldContent); err != nil {
		return "", err
	}
	return raw.requiredText(FieldContent)
}
