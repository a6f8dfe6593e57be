// Package parser implements a recursive-descent, precedence-climbing parser
// that turns a token stream from pkg/lexer into the pkg/ast tree consumed by
// pkg/executor.
package parser

import (
	"strconv"
	"strings"

	"github.com/relcore/relcore/pkg/ast"
	"github.com/relcore/relcore/pkg/errs"
	"github.com/relcore/relcore/pkg/lexer"
)

// Parser parses SQL statements into an AST.
type Parser struct {
	lexer     *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
}

// New creates a new Parser over l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

// AtEOF reports whether the parser has consumed every statement in its
// input, letting a caller that parses and executes one statement at a time
// (rather than via ParseMultiple) know when to stop.
func (p *Parser) AtEOF() bool { return p.curTokenIs(lexer.TokenEOF) }

// Parse parses one SQL statement, consuming an optional trailing semicolon.
func (p *Parser) Parse() (ast.Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.curTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
	}
	return stmt, nil
}

// ParseMultiple parses a semicolon-separated batch of statements.
func (p *Parser) ParseMultiple() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.curTokenIs(lexer.TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
		}
	}
	return stmts, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) error {
	if p.peekTokenIs(t) {
		p.nextToken()
		return nil
	}
	return p.peekError(t)
}

func (p *Parser) peekError(t lexer.TokenType) error {
	return errs.New(errs.Syntax, "expected "+t.String()+", got "+p.peekToken.Type.String()).
		At(p.peekToken.Line, p.peekToken.Column)
}

func (p *Parser) curError(msg string) error {
	return errs.New(errs.Syntax, msg).At(p.curToken.Line, p.curToken.Column)
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	if p.curTokenIs(lexer.TokenError) {
		return nil, errs.New(errs.Lexical, "%s", p.curToken.Literal).
			At(p.curToken.Line, p.curToken.Column)
	}
	switch p.curToken.Type {
	case lexer.TokenWITH:
		return p.parseSelect()
	case lexer.TokenSELECT:
		return p.parseSelect()
	case lexer.TokenINSERT:
		return p.parseInsert()
	case lexer.TokenUPDATE:
		return p.parseUpdate()
	case lexer.TokenDELETE:
		return p.parseDelete()
	case lexer.TokenCREATE:
		return p.parseCreate()
	case lexer.TokenDROP:
		return p.parseDrop()
	case lexer.TokenALTER:
		return p.parseAlter()
	case lexer.TokenUSE:
		return p.parseUse()
	case lexer.TokenREFRESH:
		return p.parseRefresh()
	default:
		return nil, p.curError("unexpected token: " + p.curToken.Type.String())
	}
}

// ---- database / session statements ----

func (p *Parser) parseUse() (*ast.UseStmt, error) {
	p.nextToken() // consume USE
	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected database name")
	}
	stmt := &ast.UseStmt{Name: p.curToken.Literal}
	p.nextToken()
	return stmt, nil
}

func (p *Parser) parseRefresh() (*ast.RefreshMaterializedViewStmt, error) {
	p.nextToken() // consume REFRESH
	if !p.curTokenIs(lexer.TokenMATERIALIZED) {
		return nil, p.curError("expected MATERIALIZED after REFRESH")
	}
	p.nextToken()
	if !p.curTokenIs(lexer.TokenVIEW) {
		return nil, p.curError("expected VIEW")
	}
	p.nextToken()
	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected view name")
	}
	stmt := &ast.RefreshMaterializedViewStmt{Name: p.curToken.Literal}
	p.nextToken()
	return stmt, nil
}

// ---- CREATE ----

func (p *Parser) parseCreate() (ast.Statement, error) {
	p.nextToken() // consume CREATE

	switch p.curToken.Type {
	case lexer.TokenDATABASE:
		return p.parseCreateDatabase()
	case lexer.TokenTABLE:
		return p.parseCreateTable()
	case lexer.TokenMATERIALIZED:
		p.nextToken()
		if !p.curTokenIs(lexer.TokenVIEW) {
			return nil, p.curError("expected VIEW after MATERIALIZED")
		}
		return p.parseCreateView(true)
	case lexer.TokenVIEW:
		return p.parseCreateView(false)
	default:
		return nil, p.curError("expected DATABASE, TABLE, VIEW, or MATERIALIZED VIEW after CREATE")
	}
}

func (p *Parser) parseCreateDatabase() (*ast.CreateDatabaseStmt, error) {
	stmt := &ast.CreateDatabaseStmt{}
	p.nextToken() // consume DATABASE

	if p.curTokenIs(lexer.TokenIF) {
		if err := p.expectPeek(lexer.TokenNOT); err != nil {
			return nil, err
		}
		if err := p.expectPeek(lexer.TokenEXISTS); err != nil {
			return nil, err
		}
		stmt.IfNotExists = true
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected database name")
	}
	stmt.Name = p.curToken.Literal
	p.nextToken()
	return stmt, nil
}

func (p *Parser) parseCreateView(materialized bool) (*ast.CreateViewStmt, error) {
	stmt := &ast.CreateViewStmt{Materialized: materialized}
	p.nextToken() // consume VIEW

	if p.curTokenIs(lexer.TokenIF) {
		if err := p.expectPeek(lexer.TokenNOT); err != nil {
			return nil, err
		}
		if err := p.expectPeek(lexer.TokenEXISTS); err != nil {
			return nil, err
		}
		stmt.IfNotExists = true
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected view name")
	}
	stmt.Name = p.curToken.Literal
	p.nextToken()

	if !p.curTokenIs(lexer.TokenAS) {
		return nil, p.curError("expected AS")
	}
	p.nextToken()

	if !p.curTokenIs(lexer.TokenSELECT) && !p.curTokenIs(lexer.TokenWITH) {
		return nil, p.curError("expected SELECT")
	}
	sel, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	stmt.Query = sel
	return stmt, nil
}

func (p *Parser) parseCreateTable() (*ast.CreateTableStmt, error) {
	stmt := &ast.CreateTableStmt{}
	p.nextToken() // consume TABLE

	if p.curTokenIs(lexer.TokenIF) {
		if err := p.expectPeek(lexer.TokenNOT); err != nil {
			return nil, err
		}
		if err := p.expectPeek(lexer.TokenEXISTS); err != nil {
			return nil, err
		}
		stmt.IfNotExists = true
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected table name")
	}
	stmt.Name = p.curToken.Literal
	p.nextToken()

	if !p.curTokenIs(lexer.TokenLParen) {
		return nil, p.curError("expected (")
	}
	p.nextToken()

	for {
		if p.curTokenIs(lexer.TokenRParen) {
			break
		}
		if p.isTableConstraintStart() {
			constraint, err := p.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			stmt.Constraints = append(stmt.Constraints, *constraint)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, *col)
		}

		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TokenRParen) {
		return nil, p.curError("expected )")
	}
	p.nextToken()
	return stmt, nil
}

func (p *Parser) isTableConstraintStart() bool {
	switch p.curToken.Type {
	case lexer.TokenPRIMARY, lexer.TokenUNIQUE, lexer.TokenCHECK, lexer.TokenCONSTRAINT:
		return true
	}
	return false
}

func (p *Parser) parseColumnDef() (*ast.ColumnDef, error) {
	col := &ast.ColumnDef{}

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected column name")
	}
	col.Name = p.curToken.Literal
	p.nextToken()

	dt, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	col.Type = *dt

	for {
		constraint, ok, err := p.parseColumnConstraint()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		col.Constraints = append(col.Constraints, *constraint)
	}
	return col, nil
}

func (p *Parser) parseDataType() (*ast.DataType, error) {
	if !p.isDataTypeKeyword() {
		return nil, p.curError("expected data type")
	}
	dt := &ast.DataType{Name: strings.ToUpper(p.curToken.Literal)}
	p.nextToken()

	if p.curTokenIs(lexer.TokenLParen) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenNumber) {
			return nil, p.curError("expected length")
		}
		n, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			return nil, p.curError("invalid length")
		}
		dt.Length = n
		p.nextToken()
		if !p.curTokenIs(lexer.TokenRParen) {
			return nil, p.curError("expected )")
		}
		p.nextToken()
	}
	return dt, nil
}

func (p *Parser) isDataTypeKeyword() bool {
	switch p.curToken.Type {
	case lexer.TokenINT, lexer.TokenINTEGER, lexer.TokenFLOAT, lexer.TokenDOUBLE, lexer.TokenREAL,
		lexer.TokenBOOLEAN, lexer.TokenVARCHAR, lexer.TokenCHAR, lexer.TokenCHARACTER, lexer.TokenTEXT,
		lexer.TokenDATE, lexer.TokenTIME, lexer.TokenTIMESTAMP, lexer.TokenSERIAL:
		return true
	}
	return false
}

func (p *Parser) parseColumnConstraint() (*ast.ColumnConstraint, bool, error) {
	c := &ast.ColumnConstraint{}
	switch p.curToken.Type {
	case lexer.TokenPRIMARY:
		p.nextToken()
		if !p.curTokenIs(lexer.TokenKEY) {
			return nil, false, p.curError("expected KEY after PRIMARY")
		}
		c.Type = ast.ConstraintPrimaryKey
		p.nextToken()
	case lexer.TokenNOT:
		p.nextToken()
		if !p.curTokenIs(lexer.TokenNULL) {
			return nil, false, p.curError("expected NULL after NOT")
		}
		c.Type = ast.ConstraintNotNull
		p.nextToken()
	case lexer.TokenUNIQUE:
		c.Type = ast.ConstraintUnique
		p.nextToken()
	case lexer.TokenDEFAULT:
		p.nextToken()
		expr, err := p.parseUnaryExpr()
		if err != nil {
			return nil, false, err
		}
		c.Type = ast.ConstraintDefault
		c.Default = expr
	case lexer.TokenCHECK:
		p.nextToken()
		if !p.curTokenIs(lexer.TokenLParen) {
			return nil, false, p.curError("expected (")
		}
		p.nextToken()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		if !p.curTokenIs(lexer.TokenRParen) {
			return nil, false, p.curError("expected )")
		}
		p.nextToken()
		c.Type = ast.ConstraintCheck
		c.Check = expr
	default:
		return nil, false, nil
	}
	return c, true, nil
}

func (p *Parser) parseTableConstraint() (*ast.TableConstraint, error) {
	if p.curTokenIs(lexer.TokenCONSTRAINT) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("expected constraint name")
		}
		p.nextToken() // named constraints are accepted but not tracked separately
	}

	c := &ast.TableConstraint{}
	switch p.curToken.Type {
	case lexer.TokenPRIMARY:
		p.nextToken()
		if !p.curTokenIs(lexer.TokenKEY) {
			return nil, p.curError("expected KEY after PRIMARY")
		}
		p.nextToken()
		c.Type = ast.ConstraintPrimaryKey
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		c.Columns = cols
	case lexer.TokenUNIQUE:
		p.nextToken()
		c.Type = ast.ConstraintUnique
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		c.Columns = cols
	case lexer.TokenCHECK:
		p.nextToken()
		c.Type = ast.ConstraintCheck
		if !p.curTokenIs(lexer.TokenLParen) {
			return nil, p.curError("expected (")
		}
		p.nextToken()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Check = expr
		if !p.curTokenIs(lexer.TokenRParen) {
			return nil, p.curError("expected )")
		}
		p.nextToken()
	default:
		return nil, p.curError("expected PRIMARY KEY, UNIQUE, or CHECK")
	}
	return c, nil
}

func (p *Parser) parseParenIdentList() ([]string, error) {
	if !p.curTokenIs(lexer.TokenLParen) {
		return nil, p.curError("expected (")
	}
	p.nextToken()
	cols, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.TokenRParen) {
		return nil, p.curError("expected )")
	}
	p.nextToken()
	return cols, nil
}

// ---- DROP ----

func (p *Parser) parseDrop() (ast.Statement, error) {
	p.nextToken() // consume DROP

	switch p.curToken.Type {
	case lexer.TokenDATABASE:
		return p.parseDropDatabase()
	case lexer.TokenTABLE:
		return p.parseDropTable()
	case lexer.TokenMATERIALIZED:
		p.nextToken()
		if !p.curTokenIs(lexer.TokenVIEW) {
			return nil, p.curError("expected VIEW after MATERIALIZED")
		}
		return p.parseDropView(true)
	case lexer.TokenVIEW:
		return p.parseDropView(false)
	default:
		return nil, p.curError("expected DATABASE, TABLE, VIEW, or MATERIALIZED VIEW after DROP")
	}
}

func (p *Parser) parseDropDatabase() (*ast.DropDatabaseStmt, error) {
	stmt := &ast.DropDatabaseStmt{}
	p.nextToken() // consume DATABASE

	if p.curTokenIs(lexer.TokenIF) {
		if err := p.expectPeek(lexer.TokenEXISTS); err != nil {
			return nil, err
		}
		stmt.IfExists = true
		p.nextToken()
	}
	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected database name")
	}
	stmt.Name = p.curToken.Literal
	p.nextToken()
	return stmt, nil
}

func (p *Parser) parseDropTable() (*ast.DropTableStmt, error) {
	stmt := &ast.DropTableStmt{}
	p.nextToken() // consume TABLE

	if p.curTokenIs(lexer.TokenIF) {
		if err := p.expectPeek(lexer.TokenEXISTS); err != nil {
			return nil, err
		}
		stmt.IfExists = true
		p.nextToken()
	}

	names, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	stmt.Names = names
	return stmt, nil
}

func (p *Parser) parseDropView(materialized bool) (*ast.DropViewStmt, error) {
	stmt := &ast.DropViewStmt{Materialized: materialized}
	p.nextToken() // consume VIEW

	if p.curTokenIs(lexer.TokenIF) {
		if err := p.expectPeek(lexer.TokenEXISTS); err != nil {
			return nil, err
		}
		stmt.IfExists = true
		p.nextToken()
	}
	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected view name")
	}
	stmt.Name = p.curToken.Literal
	p.nextToken()
	return stmt, nil
}

// ---- ALTER ----

func (p *Parser) parseAlter() (ast.Statement, error) {
	p.nextToken() // consume ALTER
	if !p.curTokenIs(lexer.TokenTABLE) {
		return nil, p.curError("expected TABLE after ALTER")
	}
	p.nextToken()

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected table name")
	}
	stmt := &ast.AlterTableStmt{Table: p.curToken.Literal}
	p.nextToken()

	switch p.curToken.Type {
	case lexer.TokenADD:
		return p.parseAlterAdd(stmt)
	case lexer.TokenDROP:
		return p.parseAlterDrop(stmt)
	case lexer.TokenRENAME:
		return p.parseAlterRename(stmt)
	default:
		return nil, p.curError("expected ADD, DROP, or RENAME")
	}
}

func (p *Parser) parseAlterAdd(stmt *ast.AlterTableStmt) (*ast.AlterTableStmt, error) {
	p.nextToken() // consume ADD
	if p.curTokenIs(lexer.TokenCONSTRAINT) || p.curTokenIs(lexer.TokenPRIMARY) ||
		p.curTokenIs(lexer.TokenUNIQUE) || p.curTokenIs(lexer.TokenCHECK) {
		constraint, err := p.parseTableConstraint()
		if err != nil {
			return nil, err
		}
		stmt.Action = &ast.AddConstraintAction{Constraint: *constraint}
		return stmt, nil
	}

	if p.curTokenIs(lexer.TokenCOLUMN) {
		p.nextToken()
	}
	col, err := p.parseColumnDef()
	if err != nil {
		return nil, err
	}
	stmt.Action = &ast.AddColumnAction{Column: *col}
	return stmt, nil
}

func (p *Parser) parseAlterDrop(stmt *ast.AlterTableStmt) (*ast.AlterTableStmt, error) {
	p.nextToken() // consume DROP
	if p.curTokenIs(lexer.TokenCOLUMN) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("expected column name")
		}
		stmt.Action = &ast.DropColumnAction{Column: p.curToken.Literal}
		p.nextToken()
		return stmt, nil
	}

	if !p.curTokenIs(lexer.TokenCONSTRAINT) {
		return nil, p.curError("expected COLUMN or CONSTRAINT after DROP")
	}
	p.nextToken()
	switch p.curToken.Type {
	case lexer.TokenPRIMARY:
		p.nextToken()
		if !p.curTokenIs(lexer.TokenKEY) {
			return nil, p.curError("expected KEY after PRIMARY")
		}
		p.nextToken()
		stmt.Action = &ast.DropConstraintAction{ConstraintType: ast.ConstraintPrimaryKey}
	case lexer.TokenUNIQUE:
		p.nextToken()
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		stmt.Action = &ast.DropConstraintAction{ConstraintType: ast.ConstraintUnique, Columns: cols}
	default:
		return nil, p.curError("expected PRIMARY KEY or UNIQUE")
	}
	return stmt, nil
}

func (p *Parser) parseAlterRename(stmt *ast.AlterTableStmt) (*ast.AlterTableStmt, error) {
	p.nextToken() // consume RENAME
	if p.curTokenIs(lexer.TokenTO) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("expected new table name")
		}
		stmt.Action = &ast.RenameTableAction{NewName: p.curToken.Literal}
		p.nextToken()
		return stmt, nil
	}

	if !p.curTokenIs(lexer.TokenCOLUMN) {
		return nil, p.curError("expected TO or COLUMN after RENAME")
	}
	p.nextToken()
	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected old column name")
	}
	oldName := p.curToken.Literal
	p.nextToken()
	if !p.curTokenIs(lexer.TokenTO) {
		return nil, p.curError("expected TO")
	}
	p.nextToken()
	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected new column name")
	}
	stmt.Action = &ast.RenameColumnAction{OldName: oldName, NewName: p.curToken.Literal}
	p.nextToken()
	return stmt, nil
}

// ---- SELECT ----

func (p *Parser) parseSelect() (*ast.SelectStmt, error) {
	var with *ast.WithClause
	if p.curTokenIs(lexer.TokenWITH) {
		w, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		with = w
	}

	stmt, err := p.parseSelectCore()
	if err != nil {
		return nil, err
	}
	stmt.With = with

	for p.curTokenIs(lexer.TokenUNION) || p.curTokenIs(lexer.TokenINTERSECT) || p.curTokenIs(lexer.TokenEXCEPT) {
		var op ast.SetOpType
		switch p.curToken.Type {
		case lexer.TokenUNION:
			p.nextToken()
			if p.curTokenIs(lexer.TokenALL) {
				op = ast.SetOpUnionAll
				p.nextToken()
			} else {
				op = ast.SetOpUnion
			}
		case lexer.TokenINTERSECT:
			op = ast.SetOpIntersect
			p.nextToken()
		case lexer.TokenEXCEPT:
			op = ast.SetOpExcept
			p.nextToken()
		}

		if !p.curTokenIs(lexer.TokenSELECT) {
			return nil, p.curError("expected SELECT after " + op.String())
		}
		next, err := p.parseSelectCore()
		if err != nil {
			return nil, err
		}
		stmt.Compound = append(stmt.Compound, ast.CompoundSelect{Op: op, Select: next})
	}

	// A trailing ORDER BY/LIMIT/OFFSET in a compound chain binds to the
	// whole chain, not the last branch it happened to parse under.
	if n := len(stmt.Compound); n > 0 {
		last := stmt.Compound[n-1].Select
		if len(last.OrderBy) > 0 {
			stmt.OrderBy = last.OrderBy
			last.OrderBy = nil
		}
		if last.Limit != nil {
			stmt.Limit = last.Limit
			last.Limit = nil
		}
		if last.Offset != nil {
			stmt.Offset = last.Offset
			last.Offset = nil
		}
	}

	return stmt, nil
}

func (p *Parser) parseWithClause() (*ast.WithClause, error) {
	with := &ast.WithClause{}
	p.nextToken() // consume WITH

	for {
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("expected CTE name")
		}
		cte := ast.CTE{Name: p.curToken.Literal}
		p.nextToken()

		if p.curTokenIs(lexer.TokenLParen) {
			cols, err := p.parseParenIdentList()
			if err != nil {
				return nil, err
			}
			cte.Columns = cols
		}

		if !p.curTokenIs(lexer.TokenAS) {
			return nil, p.curError("expected AS")
		}
		p.nextToken()
		if !p.curTokenIs(lexer.TokenLParen) {
			return nil, p.curError("expected (")
		}
		p.nextToken()
		if !p.curTokenIs(lexer.TokenSELECT) && !p.curTokenIs(lexer.TokenWITH) {
			return nil, p.curError("expected SELECT in CTE body")
		}
		query, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		cte.Query = query
		if !p.curTokenIs(lexer.TokenRParen) {
			return nil, p.curError("expected )")
		}
		p.nextToken()

		with.CTEs = append(with.CTEs, cte)

		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}

	return with, nil
}

func (p *Parser) parseSelectCore() (*ast.SelectStmt, error) {
	stmt := &ast.SelectStmt{}
	p.nextToken() // consume SELECT

	if p.curTokenIs(lexer.TokenDISTINCT) {
		stmt.Distinct = true
		p.nextToken()
	} else if p.curTokenIs(lexer.TokenALL) {
		p.nextToken()
	}

	cols, err := p.parseSelectColumns()
	if err != nil {
		return nil, err
	}
	stmt.Columns = cols

	if p.curTokenIs(lexer.TokenFROM) {
		p.nextToken()
		src, err := p.parseTableSource()
		if err != nil {
			return nil, err
		}
		stmt.From = src
	}

	if p.curTokenIs(lexer.TokenWHERE) {
		p.nextToken()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.curTokenIs(lexer.TokenGROUP) {
		if err := p.expectPeek(lexer.TokenBY); err != nil {
			return nil, err
		}
		p.nextToken()
		groupBy, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = groupBy
	}

	if p.curTokenIs(lexer.TokenHAVING) {
		p.nextToken()
		having, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Having = having
	}

	if p.curTokenIs(lexer.TokenORDER) {
		if err := p.expectPeek(lexer.TokenBY); err != nil {
			return nil, err
		}
		p.nextToken()
		orderBy, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = orderBy
	}

	if p.curTokenIs(lexer.TokenLIMIT) {
		p.nextToken()
		limit, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Limit = limit
	}

	if p.curTokenIs(lexer.TokenOFFSET) {
		p.nextToken()
		offset, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Offset = offset
	}

	return stmt, nil
}

func (p *Parser) parseSelectColumns() ([]ast.SelectColumn, error) {
	var cols []ast.SelectColumn
	for {
		col := ast.SelectColumn{}
		if p.curTokenIs(lexer.TokenStar) {
			col.Star = true
			p.nextToken()
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			col.Expr = expr

			if p.curTokenIs(lexer.TokenAS) {
				p.nextToken()
				if !p.curTokenIs(lexer.TokenIdent) {
					return nil, p.curError("expected identifier after AS")
				}
				col.Alias = p.curToken.Literal
				p.nextToken()
			} else if p.curTokenIs(lexer.TokenIdent) {
				col.Alias = p.curToken.Literal
				p.nextToken()
			}
		}

		cols = append(cols, col)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return cols, nil
}

// parseTableSource parses the single FROM source this grammar allows: a
// table/view/materialized-view/CTE name, or a parenthesized subquery.
func (p *Parser) parseTableSource() (*ast.TableSource, error) {
	src := &ast.TableSource{}

	if p.curTokenIs(lexer.TokenLParen) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenSELECT) && !p.curTokenIs(lexer.TokenWITH) {
			return nil, p.curError("expected SELECT after ( in FROM clause")
		}
		sub, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		src.Subquery = sub
		if !p.curTokenIs(lexer.TokenRParen) {
			return nil, p.curError("expected ) after subquery")
		}
		p.nextToken()

		if p.curTokenIs(lexer.TokenAS) {
			p.nextToken()
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("subquery in FROM must have an alias")
		}
		src.Alias = p.curToken.Literal
		p.nextToken()
		return src, nil
	}

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected table, view, or CTE name")
	}
	src.Name = p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(lexer.TokenAS) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("expected identifier after AS")
		}
		src.Alias = p.curToken.Literal
		p.nextToken()
	} else if p.curTokenIs(lexer.TokenIdent) {
		src.Alias = p.curToken.Literal
		p.nextToken()
	}

	return src, nil
}

func (p *Parser) parseOrderBy() ([]ast.OrderByItem, error) {
	var items []ast.OrderByItem
	for {
		item := ast.OrderByItem{}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		item.Expr = expr

		if p.curTokenIs(lexer.TokenDESC) {
			item.Desc = true
			p.nextToken()
		} else if p.curTokenIs(lexer.TokenASC) {
			p.nextToken()
		}

		items = append(items, item)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return items, nil
}

// ---- INSERT ----

func (p *Parser) parseInsert() (*ast.InsertStmt, error) {
	stmt := &ast.InsertStmt{}
	p.nextToken() // consume INSERT

	if !p.curTokenIs(lexer.TokenINTO) {
		return nil, p.curError("expected INTO")
	}
	p.nextToken()

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected table name")
	}
	stmt.Table = p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(lexer.TokenLParen) {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if !p.curTokenIs(lexer.TokenVALUES) {
		return nil, p.curError("expected VALUES")
	}
	p.nextToken()

	values, err := p.parseValuesList()
	if err != nil {
		return nil, err
	}
	stmt.Values = values

	if p.curTokenIs(lexer.TokenON) {
		onConflict, err := p.parseOnConflict()
		if err != nil {
			return nil, err
		}
		stmt.OnConflict = onConflict
	}

	if p.curTokenIs(lexer.TokenRETURNING) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenStar) {
			return nil, p.curError("expected * after RETURNING")
		}
		p.nextToken()
		stmt.Returning = true
	}

	return stmt, nil
}

func (p *Parser) parseValuesList() ([][]ast.Expr, error) {
	var rows [][]ast.Expr
	for {
		if !p.curTokenIs(lexer.TokenLParen) {
			return nil, p.curError("expected (")
		}
		p.nextToken()

		row, err := p.parseInsertRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)

		if !p.curTokenIs(lexer.TokenRParen) {
			return nil, p.curError("expected )")
		}
		p.nextToken()

		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return rows, nil
}

func (p *Parser) parseInsertRow() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		if p.curTokenIs(lexer.TokenDEFAULT) {
			exprs = append(exprs, nil)
			p.nextToken()
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return exprs, nil
}

func (p *Parser) parseOnConflict() (*ast.OnConflictClause, error) {
	p.nextToken() // consume ON
	if !p.curTokenIs(lexer.TokenCONFLICT) {
		return nil, p.curError("expected CONFLICT after ON")
	}
	p.nextToken()

	oc := &ast.OnConflictClause{}
	if p.curTokenIs(lexer.TokenLParen) {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		oc.Columns = cols
	}

	if !p.curTokenIs(lexer.TokenDO) {
		return nil, p.curError("expected DO")
	}
	p.nextToken()

	if p.curTokenIs(lexer.TokenNOTHING) {
		oc.DoNothing = true
		p.nextToken()
		return oc, nil
	}

	if !p.curTokenIs(lexer.TokenUPDATE) {
		return nil, p.curError("expected NOTHING or UPDATE after DO")
	}
	p.nextToken()
	if !p.curTokenIs(lexer.TokenSET) {
		return nil, p.curError("expected SET")
	}
	p.nextToken()

	assignments, err := p.parseAssignments()
	if err != nil {
		return nil, err
	}
	oc.DoUpdate = assignments
	return oc, nil
}

func (p *Parser) parseAssignments() ([]ast.Assignment, error) {
	var out []ast.Assignment
	for {
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("expected column name")
		}
		col := p.curToken.Literal
		p.nextToken()

		if !p.curTokenIs(lexer.TokenEq) {
			return nil, p.curError("expected =")
		}
		p.nextToken()

		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Assignment{Column: col, Value: val})

		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return out, nil
}

// ---- UPDATE / DELETE ----

func (p *Parser) parseUpdate() (*ast.UpdateStmt, error) {
	stmt := &ast.UpdateStmt{}
	p.nextToken() // consume UPDATE

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected table name")
	}
	stmt.Table = p.curToken.Literal
	p.nextToken()

	if !p.curTokenIs(lexer.TokenSET) {
		return nil, p.curError("expected SET")
	}
	p.nextToken()

	assignments, err := p.parseAssignments()
	if err != nil {
		return nil, err
	}
	stmt.Set = assignments

	if p.curTokenIs(lexer.TokenWHERE) {
		p.nextToken()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.curTokenIs(lexer.TokenRETURNING) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenStar) {
			return nil, p.curError("expected * after RETURNING")
		}
		p.nextToken()
		stmt.Returning = true
	}

	return stmt, nil
}

func (p *Parser) parseDelete() (*ast.DeleteStmt, error) {
	stmt := &ast.DeleteStmt{}
	p.nextToken() // consume DELETE

	if !p.curTokenIs(lexer.TokenFROM) {
		return nil, p.curError("expected FROM")
	}
	p.nextToken()

	if !p.curTokenIs(lexer.TokenIdent) {
		return nil, p.curError("expected table name")
	}
	stmt.Table = p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(lexer.TokenWHERE) {
		p.nextToken()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.curTokenIs(lexer.TokenRETURNING) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenStar) {
			return nil, p.curError("expected * after RETURNING")
		}
		p.nextToken()
		stmt.Returning = true
	}

	return stmt, nil
}

// ---- expression parsing (precedence, low to high) ----
// OR < AND < NOT < comparison/BETWEEN/IN/LIKE/ILIKE/IS NULL < additive <
// multiplicative < unary < primary.

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseOrExpr()
}

func (p *Parser) parseOrExpr() (ast.Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.TokenOR) {
		op := p.curToken.Type
		p.nextToken()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (ast.Expr, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.TokenAND) {
		op := p.curToken.Type
		p.nextToken()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNotExpr() (ast.Expr, error) {
	if p.curTokenIs(lexer.TokenNOT) {
		p.nextToken()
		operand, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: lexer.TokenNOT, Operand: operand}, nil
	}
	return p.parseComparisonExpr()
}

func (p *Parser) parseComparisonExpr() (ast.Expr, error) {
	left, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}

	if p.curTokenIs(lexer.TokenIS) {
		p.nextToken()
		not := false
		if p.curTokenIs(lexer.TokenNOT) {
			not = true
			p.nextToken()
		}
		if !p.curTokenIs(lexer.TokenNULL) {
			return nil, p.curError("expected NULL after IS")
		}
		p.nextToken()
		return &ast.IsNullExpr{Left: left, Not: not}, nil
	}

	not := false
	if p.curTokenIs(lexer.TokenNOT) {
		not = true
		p.nextToken()
	}

	if p.curTokenIs(lexer.TokenIN) {
		p.nextToken()
		return p.parseInExpr(left, not)
	}
	if p.curTokenIs(lexer.TokenBETWEEN) {
		p.nextToken()
		return p.parseBetweenExpr(left, not)
	}
	if p.curTokenIs(lexer.TokenLIKE) {
		p.nextToken()
		return p.parseLikeExpr(left, not, false)
	}
	if p.curTokenIs(lexer.TokenILIKE) {
		p.nextToken()
		return p.parseLikeExpr(left, not, true)
	}
	if not {
		return nil, p.curError("expected IN, BETWEEN, LIKE, or ILIKE after NOT")
	}

	if isComparisonOp(p.curToken.Type) {
		op := p.curToken.Type
		p.nextToken()
		right, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Left: left, Op: op, Right: right}, nil
	}

	return left, nil
}

func isComparisonOp(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenEq, lexer.TokenNeq, lexer.TokenLt, lexer.TokenLte, lexer.TokenGt, lexer.TokenGte:
		return true
	}
	return false
}

func (p *Parser) parseInExpr(left ast.Expr, not bool) (ast.Expr, error) {
	expr := &ast.InExpr{Left: left, Not: not}
	if !p.curTokenIs(lexer.TokenLParen) {
		return nil, p.curError("expected (")
	}
	p.nextToken()

	if p.curTokenIs(lexer.TokenSELECT) {
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		expr.Subquery = sel
	} else {
		values, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		expr.Values = values
	}

	if !p.curTokenIs(lexer.TokenRParen) {
		return nil, p.curError("expected )")
	}
	p.nextToken()
	return expr, nil
}

func (p *Parser) parseBetweenExpr(left ast.Expr, not bool) (ast.Expr, error) {
	low, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.TokenAND) {
		return nil, p.curError("expected AND in BETWEEN")
	}
	p.nextToken()
	high, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	return &ast.BetweenExpr{Left: left, Not: not, Low: low, High: high}, nil
}

func (p *Parser) parseLikeExpr(left ast.Expr, not, ci bool) (ast.Expr, error) {
	pattern, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	return &ast.LikeExpr{Left: left, Not: not, CaseInsensitive: ci, Pattern: pattern}, nil
}

func (p *Parser) parseAddExpr() (ast.Expr, error) {
	left, err := p.parseMulExpr()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.TokenPlus) || p.curTokenIs(lexer.TokenMinus) {
		op := p.curToken.Type
		p.nextToken()
		right, err := p.parseMulExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMulExpr() (ast.Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.TokenStar) || p.curTokenIs(lexer.TokenSlash) || p.curTokenIs(lexer.TokenPercent) {
		op := p.curToken.Type
		p.nextToken()
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnaryExpr() (ast.Expr, error) {
	if p.curTokenIs(lexer.TokenMinus) || p.curTokenIs(lexer.TokenPlus) {
		op := p.curToken.Type
		p.nextToken()
		operand, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) parsePrimaryExpr() (ast.Expr, error) {
	switch p.curToken.Type {
	case lexer.TokenNumber:
		expr := &ast.LiteralExpr{Type: lexer.TokenNumber, Value: p.curToken.Literal}
		p.nextToken()
		return expr, nil

	case lexer.TokenString:
		expr := &ast.LiteralExpr{Type: lexer.TokenString, Value: p.curToken.Literal}
		p.nextToken()
		return expr, nil

	case lexer.TokenNULL:
		p.nextToken()
		return &ast.LiteralExpr{Type: lexer.TokenNULL, Value: "NULL"}, nil

	case lexer.TokenTRUE:
		p.nextToken()
		return &ast.LiteralExpr{Type: lexer.TokenTRUE, Value: "TRUE"}, nil

	case lexer.TokenFALSE:
		p.nextToken()
		return &ast.LiteralExpr{Type: lexer.TokenFALSE, Value: "FALSE"}, nil

	case lexer.TokenLParen:
		p.nextToken()
		if p.curTokenIs(lexer.TokenSELECT) || p.curTokenIs(lexer.TokenWITH) {
			sel, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			if !p.curTokenIs(lexer.TokenRParen) {
				return nil, p.curError("expected )")
			}
			p.nextToken()
			return &ast.SubqueryExpr{Query: sel}, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.curTokenIs(lexer.TokenRParen) {
			return nil, p.curError("expected )")
		}
		p.nextToken()
		return &ast.ParenExpr{Expr: expr}, nil

	case lexer.TokenCASE:
		return p.parseCaseExpr()

	case lexer.TokenCAST:
		return p.parseCastExpr()

	case lexer.TokenEXTRACT:
		return p.parseExtractExpr()

	case lexer.TokenCOALESCE, lexer.TokenNULLIF, lexer.TokenIF:
		return p.parseKeywordFunction()

	case lexer.TokenIdent:
		return p.parseIdentOrFunction()

	case lexer.TokenStar:
		p.nextToken()
		return &ast.StarExpr{}, nil

	case lexer.TokenError:
		return nil, errs.New(errs.Lexical, "%s", p.curToken.Literal).
			At(p.curToken.Line, p.curToken.Column)

	default:
		return nil, p.curError("unexpected token in expression: " + p.curToken.Type.String())
	}
}

func (p *Parser) parseIdentOrFunction() (ast.Expr, error) {
	name := p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(lexer.TokenLParen) {
		return p.parseFunctionCall(name)
	}

	if p.curTokenIs(lexer.TokenDot) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("expected column name after dot")
		}
		col := p.curToken.Literal
		p.nextToken()
		return &ast.ColumnRef{Table: name, Column: col}, nil
	}

	if strings.EqualFold(name, "CURRENT_DATE") {
		return &ast.FunctionCall{Name: "CURRENT_DATE"}, nil
	}
	if strings.EqualFold(name, "CURRENT_TIME") {
		return &ast.FunctionCall{Name: "CURRENT_TIME"}, nil
	}
	if strings.EqualFold(name, "CURRENT_TIMESTAMP") {
		return &ast.FunctionCall{Name: "CURRENT_TIMESTAMP"}, nil
	}

	return &ast.ColumnRef{Column: name}, nil
}

func (p *Parser) parseKeywordFunction() (ast.Expr, error) {
	name := strings.ToUpper(p.curToken.Literal)
	p.nextToken()
	if !p.curTokenIs(lexer.TokenLParen) {
		return nil, p.curError("expected ( after " + name)
	}
	return p.parseFunctionCall(name)
}

func (p *Parser) parseFunctionCall(name string) (ast.Expr, error) {
	fn := &ast.FunctionCall{Name: strings.ToUpper(name)}
	p.nextToken() // consume (

	if p.curTokenIs(lexer.TokenStar) {
		fn.Star = true
		p.nextToken()
	} else if !p.curTokenIs(lexer.TokenRParen) {
		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		fn.Args = args
	}

	if !p.curTokenIs(lexer.TokenRParen) {
		return nil, p.curError("expected )")
	}
	p.nextToken()
	return fn, nil
}

func (p *Parser) parseCaseExpr() (ast.Expr, error) {
	expr := &ast.CaseExpr{}
	p.nextToken() // consume CASE

	if !p.curTokenIs(lexer.TokenWHEN) {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		expr.Operand = operand
	}

	for p.curTokenIs(lexer.TokenWHEN) {
		p.nextToken()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.curTokenIs(lexer.TokenTHEN) {
			return nil, p.curError("expected THEN")
		}
		p.nextToken()
		result, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		expr.Whens = append(expr.Whens, ast.WhenClause{Condition: cond, Result: result})
	}

	if p.curTokenIs(lexer.TokenELSE) {
		p.nextToken()
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		expr.Else = elseExpr
	}

	if !p.curTokenIs(lexer.TokenEND) {
		return nil, p.curError("expected END")
	}
	p.nextToken()
	return expr, nil
}

func (p *Parser) parseCastExpr() (ast.Expr, error) {
	p.nextToken() // consume CAST
	if !p.curTokenIs(lexer.TokenLParen) {
		return nil, p.curError("expected (")
	}
	p.nextToken()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.TokenAS) {
		return nil, p.curError("expected AS")
	}
	p.nextToken()

	dt, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.TokenRParen) {
		return nil, p.curError("expected )")
	}
	p.nextToken()
	return &ast.CastExpr{Expr: expr, Type: *dt}, nil
}

func (p *Parser) parseExtractExpr() (ast.Expr, error) {
	p.nextToken() // consume EXTRACT
	if !p.curTokenIs(lexer.TokenLParen) {
		return nil, p.curError("expected (")
	}
	p.nextToken()

	field, err := p.parseExtractField()
	if err != nil {
		return nil, err
	}

	if !p.curTokenIs(lexer.TokenFROM) {
		return nil, p.curError("expected FROM in EXTRACT")
	}
	p.nextToken()

	src, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.TokenRParen) {
		return nil, p.curError("expected )")
	}
	p.nextToken()
	return &ast.ExtractExpr{Field: field, Source: src}, nil
}

func (p *Parser) parseExtractField() (string, error) {
	switch p.curToken.Type {
	case lexer.TokenYEAR, lexer.TokenMONTH, lexer.TokenDAY,
		lexer.TokenHOUR, lexer.TokenMINUTE, lexer.TokenSECOND:
		field := strings.ToUpper(p.curToken.Literal)
		p.nextToken()
		return field, nil
	default:
		return "", p.curError("expected YEAR, MONTH, DAY, HOUR, MINUTE, or SECOND")
	}
}

func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return exprs, nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	var idents []string
	for {
		if !p.curTokenIs(lexer.TokenIdent) {
			return nil, p.curError("expected identifier")
		}
		idents = append(idents, p.curToken.Literal)
		p.nextToken()
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	return idents, nil
}
