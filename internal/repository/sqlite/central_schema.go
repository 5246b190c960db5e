package sqlite

// centralSchema declares every table the central store reads or writes.
// scan_history is the legacy aggregate table: older deployments created it
// without the lead_*, risk_level and degraded columns, so those are evolved
// in and read tolerantly.
var centralSchema = []TableSpec{
	{
		Name: "users",
		Columns: []ColumnSpec{
			{Name: "id", Def: "TEXT PRIMARY KEY"},
			{Name: "username", Def: "TEXT NOT NULL UNIQUE"},
			{Name: "email", Def: "TEXT NOT NULL UNIQUE"},
			{Name: "password_hash", Def: "TEXT NOT NULL"},
			{Name: "role", Def: "TEXT NOT NULL DEFAULT 'client'"},
			{Name: "active", Def: "INTEGER NOT NULL DEFAULT 1"},
			{Name: "created_at", Def: "TIMESTAMP NOT NULL"},
			{Name: "last_login", Def: "TIMESTAMP"},
		},
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",
			"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		},
	},
	{
		Name: "clients",
		Columns: []ColumnSpec{
			{Name: "id", Def: "TEXT PRIMARY KEY"},
			{Name: "user_id", Def: "TEXT NOT NULL"},
			{Name: "business_name", Def: "TEXT NOT NULL"},
			{Name: "display_name", Def: "TEXT NOT NULL"},
			{Name: "business_domain", Def: "TEXT NOT NULL"},
			{Name: "contact_email", Def: "TEXT NOT NULL"},
			{Name: "contact_phone", Def: "TEXT"},
			{Name: "subscription_tier", Def: "TEXT NOT NULL DEFAULT 'basic'"},
			{Name: "api_key", Def: "TEXT NOT NULL UNIQUE"},
			{Name: "active", Def: "INTEGER NOT NULL DEFAULT 1"},
			{Name: "created_at", Def: "TIMESTAMP NOT NULL"},
			{Name: "updated_at", Def: "TIMESTAMP NOT NULL"},
		},
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_clients_api_key ON clients(api_key)",
			"CREATE INDEX IF NOT EXISTS idx_clients_user ON clients(user_id)",
		},
	},
	{
		Name: "scanners",
		Columns: []ColumnSpec{
			{Name: "id", Def: "TEXT PRIMARY KEY"},
			{Name: "uid", Def: "TEXT NOT NULL UNIQUE"},
			{Name: "client_id", Def: "TEXT NOT NULL"},
			{Name: "name", Def: "TEXT NOT NULL"},
			{Name: "primary_color", Def: "TEXT"},
			{Name: "secondary_color", Def: "TEXT"},
			{Name: "button_color", Def: "TEXT"},
			{Name: "logo_path", Def: "TEXT"},
			{Name: "favicon_path", Def: "TEXT"},
			{Name: "branding_updated_at", Def: "TIMESTAMP"},
			{Name: "scan_types", Def: "TEXT"},
			{Name: "status", Def: "TEXT NOT NULL DEFAULT 'pending'"},
			{Name: "api_key", Def: "TEXT NOT NULL"},
			{Name: "created_at", Def: "TIMESTAMP NOT NULL"},
			{Name: "updated_at", Def: "TIMESTAMP NOT NULL"},
		},
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_scanners_uid ON scanners(uid)",
			"CREATE INDEX IF NOT EXISTS idx_scanners_client ON scanners(client_id)",
		},
	},
	{
		Name: "sessions",
		Columns: []ColumnSpec{
			{Name: "token", Def: "TEXT PRIMARY KEY"},
			{Name: "user_id", Def: "TEXT NOT NULL"},
			{Name: "created_at", Def: "TIMESTAMP NOT NULL"},
			{Name: "expires_at", Def: "TIMESTAMP NOT NULL"},
			{Name: "ip_address", Def: "TEXT"},
			{Name: "user_agent", Def: "TEXT"},
		},
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)",
		},
	},
	{
		Name: "scan_history",
		Columns: []ColumnSpec{
			{Name: "scan_id", Def: "TEXT PRIMARY KEY"},
			{Name: "client_id", Def: "TEXT NOT NULL"},
			{Name: "scanner_id", Def: "TEXT"},
			{Name: "target", Def: "TEXT"},
			{Name: "lead_name", Def: "TEXT"},
			{Name: "lead_email", Def: "TEXT"},
			{Name: "lead_phone", Def: "TEXT"},
			{Name: "lead_company", Def: "TEXT"},
			{Name: "company_size", Def: "TEXT"},
			{Name: "security_score", Def: "INTEGER"},
			{Name: "risk_level", Def: "TEXT"},
			{Name: "scan_types", Def: "TEXT"},
			{Name: "findings", Def: "TEXT"},
			{Name: "status", Def: "TEXT"},
			{Name: "degraded", Def: "INTEGER"},
			{Name: "created_at", Def: "TIMESTAMP"},
			{Name: "updated_at", Def: "TIMESTAMP"},
		},
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_scan_history_client ON scan_history(client_id)",
		},
	},
}
