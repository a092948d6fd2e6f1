package board

import (
	"fmt"
	"strings"
)

// StartFEN is the FEN of the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type castleInfo struct {
	Castle Castle
	Piece  [2]Piece
	Square [2]Square
}

var (
	symbolToCastleInfo = map[rune]castleInfo{
		'K': {WhiteOO, [2]Piece{WhiteKing, WhiteRook}, [2]Square{SquareE1, SquareH1}},
		'k': {BlackOO, [2]Piece{BlackKing, BlackRook}, [2]Square{SquareE8, SquareH8}},
		'Q': {WhiteOOO, [2]Piece{WhiteKing, WhiteRook}, [2]Square{SquareE1, SquareA1}},
		'q': {BlackOOO, [2]Piece{BlackKing, BlackRook}, [2]Square{SquareE8, SquareA8}},
	}
	symbolToColor = map[string]Color{"w": White, "b": Black}
	symbolToPiece = map[rune]Piece{
		'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop, 'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
		'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop, 'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	}
)

func parsePiecePlacement(str string, pos *Position) error {
	ranks := strings.Split(str, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("piece placement %q: expected 8 ranks, got %d", str, len(ranks))
	}
	for r := range ranks {
		f := 0
		for _, p := range ranks[r] {
			pi, ok := symbolToPiece[p]
			if !ok {
				if '1' <= p && p <= '8' {
					f += int(p) - int('0') - 1
				} else {
					return fmt.Errorf("piece placement %q: unexpected symbol %q", str, string(p))
				}
			}
			if f >= 8 {
				return fmt.Errorf("piece placement %q: rank %d too long", str, 8-r)
			}
			pos.put(RankFile(7-r, f), pi)
			f++
		}
		if f < 8 {
			return fmt.Errorf("piece placement %q: rank %d too short", str, 8-r)
		}
	}
	return nil
}

func formatPiecePlacement(pos Position) string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		space := 0
		for f := 0; f < 8; f++ {
			pi := pos.PieceOn(RankFile(r, f))
			if pi == NoPiece {
				space++
				continue
			}
			if space != 0 {
				fmt.Fprintf(&sb, "%d", space)
				space = 0
			}
			sb.WriteString(pi.String())
		}
		if space != 0 {
			fmt.Fprintf(&sb, "%d", space)
		}
		if r != 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func parseSideToMove(str string, pos *Position) error {
	col, ok := symbolToColor[str]
	if !ok {
		return fmt.Errorf("invalid side to move %q", str)
	}
	pos.setSideToMove(col)
	return nil
}

func parseCastlingAbility(str string, pos *Position) error {
	if str == "-" {
		pos.setCastlingAbility(NoCastle)
		return nil
	}
	ability := NoCastle
	for _, p := range str {
		info, ok := symbolToCastleInfo[p]
		if !ok {
			return fmt.Errorf("invalid castling ability %q", str)
		}
		ability |= info.Castle
	}
	pos.setCastlingAbility(ability)
	return nil
}

func parseEnpassantSquare(str string, pos *Position) error {
	if str == "-" {
		pos.setEnpassantSquare(SquareA1)
		return nil
	}
	sq, err := SquareFromString(str)
	if err != nil {
		return fmt.Errorf("invalid en passant square %q: %v", str, err)
	}
	pos.setEnpassantSquare(sq)
	return nil
}

func formatEnpassantSquare(pos Position) string {
	if pos.EnpassantSquare != SquareA1 {
		return pos.EnpassantSquare.String()
	}
	return "-"
}
