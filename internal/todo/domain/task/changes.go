package task

// Changes is a partial update. Nil fields are left as they are.
type Changes struct {
	Text      *string
	Completed *bool
}

// IsEmpty reports whether the change set touches no field.
func (c Changes) IsEmpty() bool {
	return c.Text == nil && c.Completed == nil
}

// Normalize trims the text and rejects an empty one.
func (c Changes) Normalize() (Changes, error) {
	if c.Text == nil {
		return c, nil
	}
	text, err := normalizeText(*c.Text)
	if err != nil {
		return Changes{}, err
	}
	c.Text = &text
	return c, nil
}

// Fields returns the wire names of the fields being changed.
func (c Changes) Fields() []string {
	fields := make([]string, 0, 2)
	if c.Text != nil {
		fields = append(fields, "task")
	}
	if c.Completed != nil {
		fields = append(fields, "completed")
	}
	return fields
}
