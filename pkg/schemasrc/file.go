// SPDX-License-Identifier: Apache-2.0

// Package schemasrc loads TableDescriptor sets from YAML schema files,
// so Delegate has something to run over without a hand-built
// []schema.TableDescriptor literal in every caller.
package schemasrc

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/polarstack/icequery/pkg/schema"
)

// fileTable is the on-disk shape of one table. Field order in the YAML
// sequence is preserved by gopkg.in/yaml.v3 itself — unlike a YAML
// mapping decoded into a Go map, a sequence never loses order — so no
// custom UnmarshalYAML is needed here.
type fileTable struct {
	Name    string       `yaml:"name"`
	Fields  []fileField  `yaml:"fields"`
	Unique  []fileUnique `yaml:"unique,omitempty"`
	Indexes []fileIndex  `yaml:"indexes,omitempty"`
	Checks  []fileCheck  `yaml:"checks,omitempty"`
}

type fileField struct {
	Name          string            `yaml:"name"`
	Type          string            `yaml:"type"`
	Enum          string            `yaml:"enum,omitempty"`
	EnumValues    []string          `yaml:"enum_values,omitempty"`
	List          bool              `yaml:"list,omitempty"`
	Nullable      bool              `yaml:"nullable,omitempty"`
	PrimaryKey    bool              `yaml:"primary_key,omitempty"`
	Autoincrement bool              `yaml:"autoincrement,omitempty"`
	Default       *string           `yaml:"default,omitempty"`
	Unique        bool              `yaml:"unique,omitempty"`
	References    *fileForeignKey   `yaml:"references,omitempty"`
	Check         *fileCheck        `yaml:"check,omitempty"`
	Postgres      map[string]string `yaml:"postgres,omitempty"`
}

type fileForeignKey struct {
	Table    string `yaml:"table"`
	Column   string `yaml:"column"`
	OnDelete string `yaml:"on_delete,omitempty"`
	OnUpdate string `yaml:"on_update,omitempty"`
}

type fileCheck struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

type fileUnique struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

type fileIndex struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Method  string   `yaml:"method,omitempty"`
	Unique  bool     `yaml:"unique,omitempty"`
}

type file struct {
	Tables []fileTable `yaml:"tables"`
}

// columnTypes maps the file format's lowercase type names to
// schema.ColumnType. Unknown names are rejected at load time rather
// than silently rendered as TEXT.
var columnTypes = map[string]schema.ColumnType{
	"integer":      schema.Integer,
	"serial":       schema.Serial,
	"varchar":      schema.Varchar,
	"text":         schema.Text,
	"boolean":      schema.Boolean,
	"timestamp":    schema.Timestamp,
	"timestamptz":  schema.TimestampTZ,
	"time":         schema.Time,
	"timetz":       schema.TimeTZ,
	"date":         schema.Date,
	"uuid":         schema.UUID,
	"json":         schema.JSON,
	"jsonb":        schema.JSONB,
	"bytea":        schema.Bytea,
	"float":        schema.Float,
	"double":       schema.Double,
}

// Load reads every *.yaml/*.yml file in dir and returns the combined
// table set, sorted by filename so multi-file schemas load
// deterministically regardless of directory iteration order.
func Load(dir fs.FS) ([]schema.TableDescriptor, error) {
	var names []string
	for _, glob := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(dir, glob)
		if err != nil {
			return nil, fmt.Errorf("schemasrc: %w", err)
		}
		names = append(names, matches...)
	}
	sort.Strings(names)

	var tables []schema.TableDescriptor
	for _, name := range names {
		ts, err := loadFile(dir, name)
		if err != nil {
			return nil, fmt.Errorf("schemasrc: %s: %w", name, err)
		}
		tables = append(tables, ts...)
	}
	return tables, nil
}

func loadFile(dir fs.FS, name string) ([]schema.TableDescriptor, error) {
	data, err := fs.ReadFile(dir, name)
	if err != nil {
		return nil, err
	}

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(name), err)
	}

	out := make([]schema.TableDescriptor, len(f.Tables))
	for i, t := range f.Tables {
		td, err := toDescriptor(t)
		if err != nil {
			return nil, err
		}
		out[i] = td
	}
	return out, nil
}

func toDescriptor(t fileTable) (schema.TableDescriptor, error) {
	fields := make([]schema.FieldDescriptor, len(t.Fields))
	for i, f := range t.Fields {
		fd, err := toField(f)
		if err != nil {
			return schema.TableDescriptor{}, fmt.Errorf("table %s: %w", t.Name, err)
		}
		fields[i] = fd
	}

	unique := make([]schema.UniqueSpec, len(t.Unique))
	for i, u := range t.Unique {
		unique[i] = schema.UniqueSpec{Name: u.Name, Columns: u.Columns}
	}

	indexes := make([]schema.IndexSpec, len(t.Indexes))
	for i, idx := range t.Indexes {
		indexes[i] = schema.IndexSpec{Name: idx.Name, Columns: idx.Columns, Method: idx.Method, Unique: idx.Unique}
	}

	checks := make([]schema.CheckSpec, len(t.Checks))
	for i, c := range t.Checks {
		checks[i] = schema.CheckSpec{Name: c.Name, Expression: c.Expression}
	}

	return schema.TableDescriptor{
		TableName:         t.Name,
		Fields:            fields,
		UniqueConstraints: unique,
		Indexes:           indexes,
		CheckConstraints:  checks,
	}, nil
}

func toField(f fileField) (schema.FieldDescriptor, error) {
	var ft schema.FieldType
	if f.Enum != "" {
		ft = schema.Enum(f.Enum, f.EnumValues...)
	} else {
		ct, ok := columnTypes[f.Type]
		if !ok {
			return schema.FieldDescriptor{}, fmt.Errorf("field %s: unknown type %q", f.Name, f.Type)
		}
		ft = schema.Primitive(ct)
	}

	var fk *schema.ForeignKeySpec
	if f.References != nil {
		fk = &schema.ForeignKeySpec{
			TargetTable:  f.References.Table,
			TargetColumn: f.References.Column,
			OnDelete:     f.References.OnDelete,
			OnUpdate:     f.References.OnUpdate,
		}
	}

	var chk *schema.CheckSpec
	if f.Check != nil {
		chk = &schema.CheckSpec{Name: f.Check.Name, Expression: f.Check.Expression}
	}

	return schema.FieldDescriptor{
		Name:           f.Name,
		Type:           ft,
		IsList:         f.List,
		Nullable:       f.Nullable,
		PrimaryKey:     f.PrimaryKey,
		Autoincrement:  f.Autoincrement,
		Default:        f.Default,
		ForeignKey:     fk,
		Unique:         f.Unique,
		Check:          chk,
		PostgresConfig: f.Postgres,
	}, nil
}
