package config

import (
	"context"
	"reflect"
	"strings"

	"github.com/mmdatafocus/erp_backend/appctx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// TenantGuardPlugin keeps every statement on a table with a business_id
// column inside the tenant bound to the statement's context:
// reads, updates and deletes get a business_id filter, inserts get the
// column filled in when the row leaves it empty.
//
// Raw/Exec SQL is not touched. appctx.ContextKeySkipTenantScope turns the
// guard off for cross-tenant jobs.
type TenantGuardPlugin struct{}

func NewTenantGuardPlugin() *TenantGuardPlugin { return &TenantGuardPlugin{} }

func (p *TenantGuardPlugin) Name() string { return "tenant_guard" }

func (p *TenantGuardPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("tenant_guard:create", stampTenantCallback); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("tenant_guard:query", scopeTenantCallback); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("tenant_guard:row", scopeTenantCallback); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("tenant_guard:update", scopeTenantCallback); err != nil {
		return err
	}
	return cb.Delete().Before("gorm:delete").Register("tenant_guard:delete", scopeTenantCallback)
}

// tenantField returns the business_id field and tenant of a guarded statement.
func tenantField(db *gorm.DB) (*schema.Field, string) {
	if db == nil || db.Statement == nil || db.Statement.Context == nil || db.Statement.Schema == nil {
		return nil, ""
	}
	ctx := db.Statement.Context
	if shouldBypassTenantScope(ctx) {
		return nil, ""
	}
	businessID := businessIdFromContext(ctx)
	if businessID == "" {
		return nil, ""
	}
	field := db.Statement.Schema.LookUpField("business_id")
	if field == nil {
		return nil, ""
	}
	return field, businessID
}

func scopeTenantCallback(db *gorm.DB) {
	field, businessID := tenantField(db)
	if field == nil || whereHasBusinessID(db.Statement.Clauses["WHERE"]) {
		return
	}
	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: db.Statement.Table, Name: field.DBName},
				Value:  businessID,
			},
		},
	})
}

func stampTenantCallback(db *gorm.DB) {
	field, businessID := tenantField(db)
	if field == nil {
		return
	}
	ctx := db.Statement.Context
	stamp := func(rv reflect.Value) {
		if _, zero := field.ValueOf(ctx, rv); zero {
			_ = field.Set(ctx, rv, businessID)
		}
	}

	rv := reflect.Indirect(db.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Struct:
		stamp(rv)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if elem := reflect.Indirect(rv.Index(i)); elem.Kind() == reflect.Struct {
				stamp(elem)
			}
		}
	}
}

func businessIdFromContext(ctx context.Context) string {
	v, _ := appctx.GetString(ctx, appctx.ContextKeyBusinessId)
	return v
}

func shouldBypassTenantScope(ctx context.Context) bool {
	v, ok := appctx.GetBool(ctx, appctx.ContextKeySkipTenantScope)
	return ok && v
}

func whereHasBusinessID(c clause.Clause) bool {
	if c.Expression == nil {
		return false
	}
	w, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, e := range w.Exprs {
		if exprHasBusinessID(e) {
			return true
		}
	}
	return false
}

func exprHasBusinessID(e clause.Expression) bool {
	switch v := e.(type) {
	case clause.Eq:
		return colIsBusinessID(v.Column)
	case clause.Neq:
		return colIsBusinessID(v.Column)
	case clause.Gt:
		return colIsBusinessID(v.Column)
	case clause.Gte:
		return colIsBusinessID(v.Column)
	case clause.Lt:
		return colIsBusinessID(v.Column)
	case clause.Lte:
		return colIsBusinessID(v.Column)
	case clause.IN:
		return colIsBusinessID(v.Column)
	case clause.AndConditions:
		for _, x := range v.Exprs {
			if exprHasBusinessID(x) {
				return true
			}
		}
		return false
	case clause.OrConditions:
		for _, x := range v.Exprs {
			if exprHasBusinessID(x) {
				return true
			}
		}
		return false
	case clause.Expr:
		return strings.Contains(strings.ToLower(v.SQL), "business_id")
	default:
		return false
	}
}

func colIsBusinessID(col any) bool {
	switch c := col.(type) {
	case string:
		return strings.EqualFold(c, "business_id")
	case clause.Column:
		return strings.EqualFold(c.Name, "business_id")
	default:
		return false
	}
}
