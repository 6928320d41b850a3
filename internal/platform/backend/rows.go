package backend

import (
	"context"
	"net/http"
	"net/url"
)

// singleRowAccept asks the row API for exactly one object; zero or more
// than one matching row makes the request fail, which SingleRow reports as an
// error rather than papering over.
const singleRowAccept = "application/vnd.pgrst.object+json"

// Filters restricts a row query to rows whose column equals the given
// value. All filters are combined conjunctively.
type Filters map[string]string

func (f Filters) encode() url.Values {
	query := url.Values{"select": {"*"}}
	for col, val := range f {
		query.Set(col, "eq."+val)
	}
	return query
}

// SelectRows fetches every row of table visible to the caller under the
// backend's row-level security, optionally narrowed by filters, and decodes
// the result into dest (a pointer to a slice).
func (c *Client) SelectRows(ctx context.Context, accessToken, table string, filters Filters, dest interface{}) error {
	return c.do(ctx, http.MethodGet, "/rest/v1/"+table, filters.encode(), nil, nil, accessToken, dest)
}

// SingleRow fetches exactly one row of table matching filters and decodes
// it into dest. The backend treats zero or multiple matches as an error.
func (c *Client) SingleRow(ctx context.Context, accessToken, table string, filters Filters, dest interface{}) error {
	headers := map[string]string{"Accept": singleRowAccept}
	return c.do(ctx, http.MethodGet, "/rest/v1/"+table, filters.encode(), headers, nil, accessToken, dest)
}
