package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	summary             TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	completed           INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	category            TEXT NOT NULL DEFAULT 'backlog' CHECK(category IN ('today', 'backlog')),
	due_date            TEXT NOT NULL DEFAULT '',
	starred             INTEGER NOT NULL DEFAULT 0 CHECK(starred IN (0, 1)),
	repeat_days         INTEGER NOT NULL DEFAULT 0 CHECK(repeat_days >= 0),
	group_name          TEXT NOT NULL DEFAULT '',
	priority            TEXT NOT NULL DEFAULT '' CHECK(priority IN ('', '!', '!!', '!!!')),
	sort_order          INTEGER NOT NULL DEFAULT 0,
	completed_on        TEXT NOT NULL DEFAULT '',
	deleted_at          DATETIME,
	recurring_parent_id TEXT NOT NULL DEFAULT '',
	created_at          DATETIME NOT NULL,
	updated_at          DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);
CREATE INDEX IF NOT EXISTS idx_todos_bucket ON todos(user_id, category, group_name, sort_order);
CREATE INDEX IF NOT EXISTS idx_todos_deleted_at ON todos(deleted_at);
CREATE INDEX IF NOT EXISTS idx_todos_recurring_parent ON todos(recurring_parent_id);

CREATE TABLE IF NOT EXISTS group_orders (
	user_id    TEXT PRIMARY KEY,
	groups     TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
