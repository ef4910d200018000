package sqlite

// Schema DDL. Ordinal columns preserve the in-memory order of blueprints,
// contracts, and the fields inside each.
const (
	createBlueprints = `CREATE TABLE IF NOT EXISTS blueprints (
    blueprint_id TEXT PRIMARY KEY,
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createBlueprintFields = `CREATE TABLE IF NOT EXISTS blueprint_fields (
    blueprint_id TEXT NOT NULL,
    field_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    field_type TEXT NOT NULL,
    label TEXT NOT NULL,
    x REAL NOT NULL,
    y REAL NOT NULL,
    required INTEGER NOT NULL,
    PRIMARY KEY (blueprint_id, field_id),
    FOREIGN KEY (blueprint_id) REFERENCES blueprints(blueprint_id) ON DELETE CASCADE
);`

	// Contracts carry blueprint_id without a foreign key: deleting a
	// blueprint leaves its contracts untouched.
	createContracts = `CREATE TABLE IF NOT EXISTS contracts (
    contract_id TEXT PRIMARY KEY,
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL,
    blueprint_id TEXT NOT NULL,
    blueprint_name TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createContractFieldValues = `CREATE TABLE IF NOT EXISTS contract_field_values (
    contract_id TEXT NOT NULL,
    field_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    field_type TEXT NOT NULL,
    required INTEGER NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (contract_id, field_id),
    FOREIGN KEY (contract_id) REFERENCES contracts(contract_id) ON DELETE CASCADE
);`

	createMeta = `CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxContractsStatus    = `CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts(status);`
	idxContractsBlueprint = `CREATE INDEX IF NOT EXISTS idx_contracts_blueprint ON contracts(blueprint_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createBlueprints,
	createBlueprintFields,
	createContracts,
	createContractFieldValues,
	createMeta,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxContractsStatus,
	idxContractsBlueprint,
}

// metaInitialized is the meta key recording whether defaults were seeded.
const metaInitialized = "initialized"
