package valuation

import "github.com/jackc/pgx/v5"

func scanGroups(rows pgx.Rows) ([]GroupTotal, error) {
	var out []GroupTotal
	for rows.Next() {
		var g GroupTotal
		if err := rows.Scan(&g.GroupID, &g.Name, &g.Quantity, &g.Value); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
