package postgres

// Item queries
const (
	insertItemSQL = `
		INSERT INTO items (name, price)
		VALUES ($1, $2)
		RETURNING id`

	getItemSQL = `SELECT id, name, price FROM items WHERE id = $1`

	// Shared locks hold off a concurrent price update until the order that
	// read these prices has committed its items.
	getItemsByIDsSQL = `SELECT id, name, price FROM items WHERE id = ANY($1) FOR SHARE`

	listItemsSQL = `SELECT id, name, price FROM items ORDER BY id DESC`

	updateItemSQL = `UPDATE items SET name = $1, price = $2 WHERE id = $3`

	deleteItemSQL = `DELETE FROM items WHERE id = $1`
)

// Order queries
const (
	insertOrderSQL = `
		INSERT INTO orders (table_number, total_price, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	insertOrderItemsSQL = `
		INSERT INTO order_items (order_id, item_id)
		SELECT $1::BIGINT, UNNEST($2::BIGINT[])`

	deleteOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`

	getOrderSQL = `
		SELECT id, table_number, total_price, status, created_at
		FROM orders
		WHERE id = $1`

	listOrdersSQL = `
		SELECT id, table_number, total_price, status, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC`

	getOrderItemsSQL = `
		SELECT oi.order_id, i.id, i.name, i.price
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY i.id`

	updateOrderSQL = `
		UPDATE orders SET table_number = $1, status = $2, total_price = $3
		WHERE id = $4`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	orderIDsByTableSQL = `SELECT id FROM orders WHERE table_number = ANY($1::BIGINT[])`

	orderIDsByStatusSQL = `SELECT id FROM orders WHERE status = ANY($1)`

	orderIDsCreatedBetweenSQL = `
		SELECT id FROM orders
		WHERE created_at >= $1 AND created_at < $2`

	// Row locks keep concurrent writers off the orders being recomputed.
	orderIDsByItemSQL = `
		SELECT o.id
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.item_id = $1
		ORDER BY o.id
		FOR UPDATE OF o`

	sumTotalsSQL = `
		SELECT COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE status = $1 AND created_at >= $2 AND created_at < $3`
)
