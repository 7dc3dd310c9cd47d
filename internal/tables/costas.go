package tables

// FT8Costas is the 7-symbol Costas array FT8 repeats three times (at channel
// symbols 0, 36 and 72) for synchronization.
var FT8Costas = [7]uint8{3, 1, 4, 0, 6, 5, 2}

// FT4Costas holds the four distinct 4-symbol Costas patterns FT4 places at
// channel symbol offsets 1, 34, 67 and 100.
var FT4Costas = [4][4]uint8{
	{0, 1, 3, 2},
	{1, 0, 2, 3},
	{2, 3, 1, 0},
	{3, 2, 0, 1},
}

// FT8GrayMap maps a 3-bit Gray code to its 8-FSK tone index.
var FT8GrayMap = [8]uint8{0, 1, 3, 2, 5, 6, 4, 7}

// FT4GrayMap maps a 2-bit Gray code to its 4-FSK tone index.
var FT4GrayMap = [4]uint8{0, 1, 3, 2}

// FT4XORSequence is the pseudorandom sequence FT4 XORs into the 10 payload
// bytes to whiten the transmitted data.
var FT4XORSequence = [10]uint8{0, 0, 0, 1, 1, 0, 0, 1, 0, 1}
