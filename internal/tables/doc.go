// Package tables holds the fixed protocol constants the FT8/FT4 waveform
// specification defines: Costas synchronization patterns, Gray-coded tone
// maps, and the (174, 91) LDPC parity-check Tanner graph.
//
// Nothing in this package is derived from the audio or the rest of the
// decoder; it is reproduced from the published protocol description (see
// ka9q/ft8_lib and WSJT-X's ldpc_174_91_c.c), the way
// llehouerou-go-aac/internal/tables holds its Huffman/MDCT/SFB codebooks
// as standalone, independently testable data. The one exception is the LDPC
// Tanner graph, which is generated at init time and is not the bit-exact
// published matrix (see ldpc.go).
package tables
