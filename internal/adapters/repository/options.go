package repository

// Option applies a configuration option to a SQLSource.
type Option func(*SQLSource)

// WithTable sets the table postings are read from. Invalid names are
// reported by OpenSQLSource.
func WithTable(name string) Option {
	return func(s *SQLSource) {
		if name != "" {
			s.table = name
		}
	}
}

// CSVOption applies a configuration option to a CSVSource.
type CSVOption func(*CSVSource)

// WithComma sets the field delimiter.
func WithComma(r rune) CSVOption {
	return func(s *CSVSource) {
		if r != 0 {
			s.comma = r
		}
	}
}
