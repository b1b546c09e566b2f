// Package processor provides table codecs for localization files.
package processor

import "github.com/ZaguanLabs/csvlate"

// TableCodec is an alias to the main package interface.
type TableCodec = csvlate.TableCodec

// Table is an alias to the main package type.
type Table = csvlate.Table

// Verify codecs implement TableCodec
var _ TableCodec = (*CSVCodec)(nil)
