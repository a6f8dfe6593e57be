package lexer

import "fmt"

type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdent  // identifiers
	TokenNumber // integers and floats
	TokenString // 'string literals'

	// Operators
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenEq      // =
	TokenNeq     // <> or !=
	TokenLt      // <
	TokenLte     // <=
	TokenGt      // >
	TokenGte     // >=

	// Punctuation
	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenSemicolon // ;
	TokenDot       // .

	// SQL Keywords - DML
	TokenSELECT
	TokenFROM
	TokenWHERE
	TokenAND
	TokenOR
	TokenNOT
	TokenAS
	TokenDISTINCT
	TokenALL

	TokenINSERT
	TokenINTO
	TokenVALUES

	TokenUPDATE
	TokenSET

	TokenDELETE

	// SQL Keywords - DDL
	TokenCREATE
	TokenDROP
	TokenALTER
	TokenTABLE
	TokenVIEW
	TokenMATERIALIZED
	TokenREFRESH
	TokenDATABASE
	TokenUSE
	TokenADD
	TokenCOLUMN
	TokenRENAME
	TokenTO

	// SQL Keywords - Constraints
	TokenPRIMARY
	TokenKEY
	TokenUNIQUE
	TokenCHECK
	TokenCONSTRAINT
	TokenDEFAULT

	// SQL Keywords - Clauses
	TokenORDER
	TokenBY
	TokenASC
	TokenDESC
	TokenLIMIT
	TokenOFFSET
	TokenGROUP
	TokenHAVING

	// SQL Keywords - CTE
	TokenWITH

	// SQL Keywords - Set operations
	TokenUNION
	TokenINTERSECT
	TokenEXCEPT

	// SQL Keywords - Predicates
	TokenIN
	TokenBETWEEN
	TokenLIKE
	TokenILIKE
	TokenIS
	TokenNULL

	// SQL Keywords - CASE
	TokenCASE
	TokenWHEN
	TokenTHEN
	TokenELSE
	TokenEND

	// SQL Keywords - Other
	TokenCAST
	TokenCOALESCE
	TokenNULLIF
	TokenIF
	TokenEXISTS

	// INSERT conflict / RETURNING
	TokenON
	TokenCONFLICT
	TokenDO
	TokenNOTHING
	TokenRETURNING

	// Boolean literals
	TokenTRUE
	TokenFALSE

	// Data types
	TokenINT
	TokenINTEGER
	TokenFLOAT
	TokenDOUBLE
	TokenREAL
	TokenBOOLEAN
	TokenVARCHAR
	TokenCHAR
	TokenCHARACTER
	TokenTEXT
	TokenDATE
	TokenTIME
	TokenTIMESTAMP
	TokenSERIAL

	// EXTRACT fields
	TokenEXTRACT
	TokenYEAR
	TokenMONTH
	TokenDAY
	TokenHOUR
	TokenMINUTE
	TokenSECOND
)

var keywords = map[string]TokenType{
	// DML
	"SELECT":   TokenSELECT,
	"FROM":     TokenFROM,
	"WHERE":    TokenWHERE,
	"AND":      TokenAND,
	"OR":       TokenOR,
	"NOT":      TokenNOT,
	"AS":       TokenAS,
	"DISTINCT": TokenDISTINCT,
	"ALL":      TokenALL,
	"INSERT":   TokenINSERT,
	"INTO":     TokenINTO,
	"VALUES":   TokenVALUES,
	"UPDATE":   TokenUPDATE,
	"SET":      TokenSET,
	"DELETE":   TokenDELETE,

	// DDL
	"CREATE":       TokenCREATE,
	"DROP":         TokenDROP,
	"ALTER":        TokenALTER,
	"TABLE":        TokenTABLE,
	"VIEW":         TokenVIEW,
	"MATERIALIZED": TokenMATERIALIZED,
	"REFRESH":      TokenREFRESH,
	"DATABASE":     TokenDATABASE,
	"USE":          TokenUSE,
	"ADD":          TokenADD,
	"COLUMN":       TokenCOLUMN,
	"RENAME":       TokenRENAME,
	"TO":           TokenTO,

	// Constraints
	"PRIMARY":    TokenPRIMARY,
	"KEY":        TokenKEY,
	"UNIQUE":     TokenUNIQUE,
	"CHECK":      TokenCHECK,
	"CONSTRAINT": TokenCONSTRAINT,
	"DEFAULT":    TokenDEFAULT,

	// Clauses
	"ORDER":  TokenORDER,
	"BY":     TokenBY,
	"ASC":    TokenASC,
	"DESC":   TokenDESC,
	"LIMIT":  TokenLIMIT,
	"OFFSET": TokenOFFSET,
	"GROUP":  TokenGROUP,
	"HAVING": TokenHAVING,

	// CTE
	"WITH": TokenWITH,

	// Set operations
	"UNION":     TokenUNION,
	"INTERSECT": TokenINTERSECT,
	"EXCEPT":    TokenEXCEPT,

	// Predicates
	"IN":      TokenIN,
	"BETWEEN": TokenBETWEEN,
	"LIKE":    TokenLIKE,
	"ILIKE":   TokenILIKE,
	"IS":      TokenIS,
	"NULL":    TokenNULL,
	"EXISTS":  TokenEXISTS,

	// CASE
	"CASE": TokenCASE,
	"WHEN": TokenWHEN,
	"THEN": TokenTHEN,
	"ELSE": TokenELSE,
	"END":  TokenEND,

	// Other
	"CAST":     TokenCAST,
	"COALESCE": TokenCOALESCE,
	"NULLIF":   TokenNULLIF,
	"IF":       TokenIF,

	// Conflict / RETURNING
	"ON":        TokenON,
	"CONFLICT":  TokenCONFLICT,
	"DO":        TokenDO,
	"NOTHING":   TokenNOTHING,
	"RETURNING": TokenRETURNING,

	// Boolean
	"TRUE":  TokenTRUE,
	"FALSE": TokenFALSE,

	// Data types
	"INT":       TokenINT,
	"INTEGER":   TokenINTEGER,
	"FLOAT":     TokenFLOAT,
	"DOUBLE":    TokenDOUBLE,
	"REAL":      TokenREAL,
	"BOOLEAN":   TokenBOOLEAN,
	"VARCHAR":   TokenVARCHAR,
	"CHAR":      TokenCHAR,
	"CHARACTER": TokenCHARACTER,
	"TEXT":      TokenTEXT,
	"DATE":      TokenDATE,
	"TIME":      TokenTIME,
	"TIMESTAMP": TokenTIMESTAMP,
	"SERIAL":    TokenSERIAL,

	// EXTRACT
	"EXTRACT": TokenEXTRACT,
	"YEAR":    TokenYEAR,
	"MONTH":   TokenMONTH,
	"DAY":     TokenDAY,
	"HOUR":    TokenHOUR,
	"MINUTE":  TokenMINUTE,
	"SECOND":  TokenSECOND,
}

// LookupKeyword returns the token type for an identifier.
// If the identifier is a keyword, returns the keyword token type.
// Otherwise, returns TokenIdent.
func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{Type: %v, Literal: %q, Line: %d, Col: %d}",
		t.Type, t.Literal, t.Line, t.Column)
}

// IsKeyword returns true if the token is a SQL keyword.
func (t Token) IsKeyword() bool {
	return t.Type >= TokenSELECT
}

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenError:     "ERROR",
	TokenIdent:     "IDENT",
	TokenNumber:    "NUMBER",
	TokenString:    "STRING",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenPercent:   "%",
	TokenEq:        "=",
	TokenNeq:       "<>",
	TokenLt:        "<",
	TokenLte:       "<=",
	TokenGt:        ">",
	TokenGte:       ">=",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenComma:     ",",
	TokenSemicolon: ";",
	TokenDot:       ".",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	// For keywords, look up in reverse
	for kw, tok := range keywords {
		if tok == t {
			return kw
		}
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}
