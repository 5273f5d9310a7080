package model

// Field describes one entity-specific column. Flag fields are stored as
// INTEGER 0/1 and presented as booleans on the API surface.
type Field struct {
	Name     string
	Required bool
	Flag     bool
}

// Schema is the per-entity configuration the generic store, manager and
// handlers are parameterized by. One schema per collection; no per-entity
// code anywhere else.
type Schema struct {
	Name   string // table and collection name
	Label  string // singular human-readable name used in messages
	Fields []Field
}

// Columns returns the entity-specific column names in declaration order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Field looks up a field definition by column name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Registry holds every entity the system manages. Adding an entity means
// adding a schema here; the store, service and handlers pick it up from the
// configuration alone.
var Registry = []Schema{
	{
		Name:  "assets",
		Label: "asset",
		Fields: []Field{
			{Name: "asset_number", Required: true},
			{Name: "name", Required: true},
			{Name: "department", Required: true},
			{Name: "hostname"},
			{Name: "username"},
			{Name: "serial_number"},
			{Name: "device"},
		},
	},
	{
		Name:  "software_licenses",
		Label: "software license",
		Fields: []Field{
			{Name: "software_key", Required: true},
			{Name: "name", Required: true},
			{Name: "department", Required: true},
			{Name: "hostname"},
			{Name: "username"},
			{Name: "ms_office", Flag: true},
			{Name: "autocad", Flag: true},
			{Name: "cero", Flag: true},
			{Name: "device"},
		},
	},
	{
		Name:  "sap_servers",
		Label: "SAP server",
		Fields: []Field{
			{Name: "server_brand", Required: true},
			{Name: "serial_number", Required: true},
			{Name: "model_number", Required: true},
			{Name: "hard_disk"},
			{Name: "total_ram"},
			{Name: "total_cpu"},
		},
	},
	{
		Name:  "non_sap_servers",
		Label: "non-SAP server",
		Fields: []Field{
			{Name: "server_brand", Required: true},
			{Name: "serial_number", Required: true},
			{Name: "model_number", Required: true},
			{Name: "hard_disk"},
			{Name: "total_ram"},
			{Name: "total_cpu"},
			{Name: "vm"},
		},
	},
	{
		Name:  "switches",
		Label: "switch",
		Fields: []Field{
			{Name: "switch_id", Required: true},
			{Name: "name", Required: true},
			{Name: "department", Required: true},
			{Name: "hostname"},
			{Name: "username"},
			{Name: "plant"},
			{Name: "device"},
		},
	},
	{
		Name:  "cctv",
		Label: "CCTV camera",
		Fields: []Field{
			{Name: "cctv_id", Required: true},
			{Name: "name", Required: true},
			{Name: "department", Required: true},
			{Name: "hostname"},
			{Name: "username"},
			{Name: "plant"},
			{Name: "device"},
		},
	},
	{
		Name:  "printers",
		Label: "printer",
		Fields: []Field{
			{Name: "printer_id", Required: true},
			{Name: "name", Required: true},
			{Name: "department", Required: true},
			{Name: "hostname"},
			{Name: "username"},
			{Name: "plant"},
			{Name: "device"},
		},
	},
}

// SchemaFor returns the schema for a collection name.
func SchemaFor(entity string) (Schema, bool) {
	for _, s := range Registry {
		if s.Name == entity {
			return s, true
		}
	}
	return Schema{}, false
}

// EntityNames returns every registered collection name in registry order.
func EntityNames() []string {
	names := make([]string, len(Registry))
	for i, s := range Registry {
		names[i] = s.Name
	}
	return names
}
