package catalog

import (
	"database/sql"

	"github.com/gnemet/dbadmin"
	"github.com/gorilla/mux"
)

// Register wires every catalog entity onto the router: one list route backed
// by the entity's view, and one route per single-record operation backed by
// the routine of the same name. All handlers go through the error boundary.
func (c *Catalog) Register(r *mux.Router, db *sql.DB, cache *dbadmin.SchemaCache, store *dbadmin.TemplateStore) {
	for _, entity := range c.Entities {
		list := &dbadmin.MultiRowHandler{
			DB:           db,
			Cache:        cache,
			Templates:    store,
			Scope:        c.Scope,
			View:         dbadmin.ViewName(entity.ListView()),
			WhereClauses: entity.Filters,
		}
		r.HandleFunc("/"+entity.ListView(), dbadmin.Boundary(list.Handle))

		for _, op := range SingleRowOps {
			single := &dbadmin.SingleRowHandler{
				DB:        db,
				Cache:     cache,
				Templates: store,
				Scope:     c.Scope,
				Routine:   dbadmin.RoutineName(entity.Routine(op)),
			}
			r.HandleFunc("/"+entity.Routine(op), dbadmin.Boundary(single.Handle))
		}
	}
}
