package gandermg

import (
	"fmt"
	"strings"
)

// Dump renders the board as the ASCII frame the "d" command emits. The
// browser front-end only parses the "Fen:" line that follows it, but the
// frame matches what reference engines print for eyeball debugging.
func (b *Board) Dump() string {
	var sb strings.Builder
	const bar = "  +---+---+---+---+---+---+---+---+\n"
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(bar)
		fmt.Fprintf(&sb, "%d |", rank+1)
		for file := 0; file < 8; file++ {
			p := b.mail[rank*8+file]
			ch := byte(' ')
			if p != NoPiece {
				ch = fenChar(p)
			}
			fmt.Fprintf(&sb, " %c |", ch)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(bar)
	sb.WriteString("    a   b   c   d   e   f   g   h")
	return sb.String()
}
