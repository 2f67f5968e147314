package position

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset converts a UTF-16 code unit column within a line to a
// byte offset. A column that falls inside a surrogate pair clamps to the start
// of that rune, and columns past the end clamp to len(s).
func UTF16ToByteOffset(s string, col int) int {
	units := 0
	offset := 0
	for offset < len(s) && units < col {
		r, size := utf8.DecodeRuneInString(s[offset:])
		n := 1
		if r != utf8.RuneError || size != 1 {
			n = utf16.RuneLen(r)
		}
		if units+n > col {
			break
		}
		units += n
		offset += size
	}
	return offset
}

// ByteOffsetToUTF16 counts the UTF-16 code units in s[:offset]. A partial
// rune at the end is not counted.
func ByteOffsetToUTF16(s string, offset int) int {
	offset = min(max(offset, 0), len(s))
	units := 0
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(s[i:])
		if i+size > offset {
			break
		}
		if r == utf8.RuneError && size == 1 {
			units++
		} else {
			units += utf16.RuneLen(r)
		}
		i += size
	}
	return units
}
