package csvcore

// Value is one Record field: either present text, or the null sentinel.
// Keeping null as a distinct case (rather than overloading the empty
// string) is the design called out in spec.md §9.
type Value struct {
	Text string
	Null bool
}

// String returns the field's text, or "" if it is the null sentinel.
func (v Value) String() string {
	if v.Null {
		return ""
	}
	return v.Text
}

// header is the name->index mapping shared by every Record a Parser
// produces, so Records can look fields up by name without each owning a
// private copy of the map.
type header struct {
	index map[string]int
	names []string
}

// Record is an immutable, positionally-ordered sequence of fields produced
// by a Parser, plus the header binding (if any) and source-position
// metadata it was parsed with.
type Record struct {
	values       []Value
	hdr          *header
	recordNumber uint64
	line         uint64
	charPos      int64
	bytePos      int64
	comment      string
	hasComment   bool
}

// Size returns the number of fields in the record.
func (r Record) Size() int { return len(r.values) }

// At returns the field at a 0-based positional index.
func (r Record) At(index int) (Value, error) {
	if index < 0 || index >= len(r.values) {
		return Value{}, &FieldError{Kind: FieldMissingIndex, Index: index}
	}
	return r.values[index], nil
}

// Get returns the field named name, resolved through the Parser's header.
// It returns FieldError with FieldUnknownName if no such column exists, or
// FieldMissingIndex if the column exists but this particular (short) record
// has no value at that position.
func (r Record) Get(name string) (Value, error) {
	if r.hdr == nil {
		return Value{}, &FieldError{Kind: FieldUnknownName, Name: name}
	}
	idx, ok := r.hdr.index[name]
	if !ok {
		return Value{}, &FieldError{Kind: FieldUnknownName, Name: name}
	}
	if idx >= len(r.values) {
		return Value{}, &FieldError{Kind: FieldMissingIndex, Index: idx}
	}
	return r.values[idx], nil
}

// Values returns a defensive copy of the record's raw field text, in
// positional order. The null sentinel string (if any) appears verbatim,
// matching spec.md §4.4.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	for i, v := range r.values {
		out[i] = v.Text
	}
	return out
}

// IsConsistent reports whether this record has exactly as many fields as
// the header it was parsed against. A Record with no header is always
// consistent.
func (r Record) IsConsistent() bool {
	if r.hdr == nil {
		return true
	}
	return len(r.values) == len(r.hdr.names)
}

// IsMapped reports whether name is a column of this record's header.
func (r Record) IsMapped(name string) bool {
	if r.hdr == nil {
		return false
	}
	_, ok := r.hdr.index[name]
	return ok
}

// ToMap returns a name->text mapping built from the header, for columns
// that exist within this record's length. Fields beyond a short record's
// length, and unnamed header entries, are omitted.
func (r Record) ToMap() map[string]string {
	m := make(map[string]string)
	if r.hdr == nil {
		return m
	}
	for name, idx := range r.hdr.index {
		if idx < len(r.values) {
			m[name] = r.values[idx].Text
		}
	}
	return m
}

// RecordNumber returns the 1-based ordinal of this record among the
// Records yielded by its Parser (the header row, if consumed from the
// stream, does not increment this counter).
func (r Record) RecordNumber() uint64 { return r.recordNumber }

// Line returns the 1-based source line on which this record began.
func (r Record) Line() uint64 { return r.line }

// CharacterPosition returns the character offset at which this record
// began, or -1 if untracked.
func (r Record) CharacterPosition() int64 { return r.charPos }

// BytePosition returns the byte offset at which this record began, or -1 if
// byte tracking was not enabled on the Parser's CharSource.
func (r Record) BytePosition() int64 { return r.bytePos }

// Comment returns the newline-joined comment text accumulated since the
// previous record (header-preceding or inline), and whether any exists.
func (r Record) Comment() (string, bool) { return r.comment, r.hasComment }

// Equal reports whether two Records have the same values, in the same
// order (header bindings and position metadata are not compared).
func (r Record) Equal(o Record) bool {
	if len(r.values) != len(o.values) {
		return false
	}
	for i := range r.values {
		if r.values[i] != o.values[i] {
			return false
		}
	}
	return true
}
