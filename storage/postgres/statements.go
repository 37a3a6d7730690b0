package postgres

// Statements issued by ListRepository. Parameters are positional ($n) and
// always appear in ascending order.
const (
	listSummarySQL = `SELECT l.id, l.name, COUNT(t.id) AS todos_count, ` +
		`COUNT(NULLIF(t.completed, true)) AS todos_remaining_count ` +
		`FROM lists l LEFT OUTER JOIN todos t ON l.id = t.list_id`

	findListSQL   = listSummarySQL + ` WHERE l.id = $1 GROUP BY l.id, l.name`
	allListsSQL   = listSummarySQL + ` GROUP BY l.id, l.name ORDER BY l.name COLLATE "C"`
	findTodosSQL  = `SELECT id, name, completed FROM todos WHERE list_id = $1 ORDER BY id`
	listExistsSQL = `SELECT 1 FROM lists WHERE id = $1`

	createListSQL      = `INSERT INTO lists (name) VALUES ($1) RETURNING id`
	deleteListTodosSQL = `DELETE FROM todos WHERE list_id = $1`
	deleteListSQL      = `DELETE FROM lists WHERE id = $1`
	updateListNameSQL  = `UPDATE lists SET name = $1 WHERE id = $2`

	createTodoSQL       = `INSERT INTO todos (name, list_id) SELECT $1, id FROM lists WHERE id = $2 RETURNING id`
	deleteTodoSQL       = `DELETE FROM todos WHERE id = $1 AND list_id = $2`
	updateTodoStatusSQL = `UPDATE todos SET completed = $1 WHERE id = $2 AND list_id = $3`
	markAllCompletedSQL = `UPDATE todos SET completed = true WHERE list_id = $1`
)

// schema creates the storage layout when it is missing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS lists (` +
		`id serial PRIMARY KEY, ` +
		`name text NOT NULL UNIQUE)`,
	`CREATE TABLE IF NOT EXISTS todos (` +
		`id serial PRIMARY KEY, ` +
		`name text NOT NULL, ` +
		`completed boolean NOT NULL DEFAULT false, ` +
		`list_id integer NOT NULL REFERENCES lists (id))`,
	`CREATE INDEX IF NOT EXISTS todos_list_id_idx ON todos (list_id)`,
}
