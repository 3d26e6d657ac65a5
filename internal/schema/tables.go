package schema

import "strings"

// FieldType represents the data type of a column
type FieldType string

const (
	TypeIdentifier  FieldType = "identifier"
	TypeText        FieldType = "text"
	TypePositive    FieldType = "positive"
	TypeNonNegative FieldType = "non_negative"
	TypePercentage  FieldType = "percentage"
	TypeInteger     FieldType = "integer"
	TypeCoordinate  FieldType = "coordinate"
)

// FieldDef defines the schema for a single column
type FieldDef struct {
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	Description string    `json:"description"`
	Example     string    `json:"example"`
}

// TableSchema describes one uploaded table: the sheet names it may appear under,
// its columns in export order and the column holding the row key.
type TableSchema struct {
	Name      string              `json:"name"`
	Sheets    []string            `json:"sheets"`
	Columns   []string            `json:"columns"`
	Fields    map[string]FieldDef `json:"fields"`
	KeyColumn string              `json:"key_column"`
	// Aliases lists extra header spellings accepted for a canonical column.
	Aliases map[string][]string `json:"aliases,omitempty"`
}

// Column keys shared by the table schemas and the ingest package.
const (
	ColCity        = "cidade"
	ColIrradiance  = "irradiancia"
	ColState       = "estado"
	ColLatitude    = "latitude"
	ColLongitude   = "longitude"
	ColKitID       = "id"
	ColKitName     = "nome"
	ColPower       = "potencia"
	ColEfficiency  = "eficiencia"
	ColPricePerW   = "precoW"
	ColModulePower = "moduloPotencia"
	ColBrand       = "marca"
	ColModel       = "modelo"
	ColDistributor = "distribuidora"
	ColTariff      = "tarifaKwh"
	ColFlag        = "bandeira"
)

func bound(v float64) *float64 { return &v }

// Cities is the schema of the "Cidades" sheet.
var Cities = TableSchema{
	Name:      "Cidades",
	Sheets:    []string{"Cidades", "Cities"},
	Columns:   []string{ColCity, ColIrradiance, ColState, ColLatitude, ColLongitude},
	KeyColumn: ColCity,
	Fields: map[string]FieldDef{
		ColCity:       {Type: TypeIdentifier, Required: true, Description: "Nome da cidade", Example: "São Paulo"},
		ColIrradiance: {Type: TypePositive, Required: true, Description: "Irradiância solar média (kWh/m²/dia)", Example: "4.8"},
		ColState:      {Type: TypeText, Required: true, Description: "Sigla do estado", Example: "SP"},
		ColLatitude:   {Type: TypeCoordinate, Min: bound(-90), Max: bound(90), Description: "Coordenada latitude (opcional)", Example: "-23.5505"},
		ColLongitude:  {Type: TypeCoordinate, Min: bound(-180), Max: bound(180), Description: "Coordenada longitude (opcional)", Example: "-46.6333"},
	},
}

// Kits is the schema of the "Inversores" sheet. Efficiency is a percentage here.
var Kits = TableSchema{
	Name:      "Inversores",
	Sheets:    []string{"Inversores", "Kits", "Inverters"},
	Columns:   []string{ColKitID, ColKitName, ColPower, ColEfficiency, ColPricePerW, ColModulePower, ColBrand, ColModel},
	KeyColumn: ColKitID,
	Fields: map[string]FieldDef{
		ColKitID:       {Type: TypeIdentifier, Required: true, Description: "Identificador único do kit", Example: "kit_3kw_basic"},
		ColKitName:     {Type: TypeText, Required: true, Description: "Nome comercial do kit", Example: "Kit Básico 3kW"},
		ColPower:       {Type: TypeNonNegative, Required: true, Description: "Potência em kW", Example: "3"},
		ColEfficiency:  {Type: TypePercentage, Required: true, Description: "Eficiência em % (0-100)", Example: "85"},
		ColPricePerW:   {Type: TypePositive, Required: true, Description: "Preço por Watt em R$", Example: "4.8"},
		ColModulePower: {Type: TypeInteger, Required: true, Min: bound(1), Description: "Potência do módulo em W", Example: "550"},
		ColBrand:       {Type: TypeText, Description: "Marca do equipamento (opcional)", Example: "Canadian Solar"},
		ColModel:       {Type: TypeText, Description: "Modelo do equipamento (opcional)", Example: "CS3W-550MS"},
	},
	Aliases: map[string][]string{ColKitID: {"ID"}},
}

// Tariffs is the schema of the "Tarifas" sheet.
var Tariffs = TableSchema{
	Name:      "Tarifas",
	Sheets:    []string{"Tarifas", "Tariffs"},
	Columns:   []string{ColCity, ColDistributor, ColTariff, ColFlag},
	KeyColumn: ColCity,
	Fields: map[string]FieldDef{
		ColCity:        {Type: TypeIdentifier, Required: true, Description: "Nome da cidade", Example: "São Paulo"},
		ColDistributor: {Type: TypeText, Required: true, Description: "Nome da distribuidora", Example: "Enel SP"},
		ColTariff:      {Type: TypePositive, Required: true, Description: "Tarifa por kWh em R$", Example: "0.68"},
		ColFlag:        {Type: TypeText, Description: "Bandeira tarifária (opcional)", Example: "Verde"},
	},
}

// All returns the three table schemas in workbook order.
func All() []*TableSchema {
	return []*TableSchema{&Cities, &Kits, &Tariffs}
}

// MatchesSheet reports whether a workbook sheet name belongs to this table.
func (s *TableSchema) MatchesSheet(name string) bool {
	name = strings.TrimSpace(name)
	for _, candidate := range s.Sheets {
		if strings.EqualFold(name, candidate) {
			return true
		}
	}
	return false
}

// RequiredColumns returns the required column keys in export order.
func (s *TableSchema) RequiredColumns() []string {
	var cols []string
	for _, c := range s.Columns {
		if s.Fields[c].Required {
			cols = append(cols, c)
		}
	}
	return cols
}
