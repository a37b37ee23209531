package form

// The editing helpers below never mutate their receiver; each returns a new
// Config so callers can keep the previous value for undo or diffing.

// AddField appends field, deriving its id from the label when the id is empty
// or already used by another field.
func (c Config) AddField(field Field) Config {
	out := c.Clone()
	ids := out.FieldIDs()
	if field.Label == "" && field.ID != "" {
		field.Label = DefaultLabel(field.ID)
	}
	if field.ID == "" || contains(ids, field.ID) {
		field.ID = GenerateFieldID(field.Label, ids)
	}
	if field.Label == "" {
		field.Label = DefaultLabel(field.ID)
	}
	out.Fields = append(out.Fields, field)
	return out
}

// UpdateField applies update to the field with the given id. Unknown ids
// return an unchanged copy.
func (c Config) UpdateField(id string, update func(*Field)) Config {
	out := c.Clone()
	if update == nil {
		return out
	}
	for i := range out.Fields {
		if out.Fields[i].ID == id {
			update(&out.Fields[i])
			break
		}
	}
	return out
}

// RemoveField drops the field with the given id.
func (c Config) RemoveField(id string) Config {
	out := c.Clone()
	kept := out.Fields[:0]
	for _, field := range out.Fields {
		if field.ID != id {
			kept = append(kept, field)
		}
	}
	out.Fields = kept
	return out
}

// MoveField moves the field at index from to index to. Out of range indexes
// return an unchanged copy.
func (c Config) MoveField(from, to int) Config {
	out := c.Clone()
	n := len(out.Fields)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return out
	}
	moved := out.Fields[from]
	out.Fields = append(out.Fields[:from], out.Fields[from+1:]...)
	out.Fields = append(out.Fields[:to], append([]Field{moved}, out.Fields[to:]...)...)
	return out
}

// WithMeta replaces the form name and description.
func (c Config) WithMeta(name, description string) Config {
	out := c.Clone()
	out.Name = name
	out.Description = description
	return out
}

// Normalize fills in missing field ids and labels. Explicit ids are kept as
// authored, duplicates included, so Validate can still report them.
func (c Config) Normalize() Config {
	out := c.Clone()
	ids := make([]string, 0, len(out.Fields))
	for _, field := range out.Fields {
		if field.ID != "" {
			ids = append(ids, field.ID)
		}
	}
	for i := range out.Fields {
		field := &out.Fields[i]
		if field.ID == "" {
			field.ID = GenerateFieldID(field.Label, ids)
			ids = append(ids, field.ID)
		}
		if field.Label == "" {
			field.Label = DefaultLabel(field.ID)
		}
	}
	return out
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
