// model.go: GORM models mirroring the pyArchInit relational schema.
// The schema is owned by pyArchInit; this service only reads from it.
package datastore

// Site represents one archaeological site record from site_table.
type Site struct {
	ID              int     `gorm:"column:id_sito;primaryKey" json:"id_sito"`
	Sito            string  `gorm:"column:sito;index" json:"sito"`
	Nazione         *string `gorm:"column:nazione" json:"nazione"`
	Regione         *string `gorm:"column:regione" json:"regione"`
	Comune          *string `gorm:"column:comune" json:"comune"`
	Provincia       *string `gorm:"column:provincia" json:"provincia"`
	DefinizioneSito *string `gorm:"column:definizione_sito" json:"definizione_sito"`
	Descrizione     *string `gorm:"column:descrizione" json:"descrizione"`
}

// TableName maps Site to the pyArchInit table name.
func (Site) TableName() string { return "site_table" }

// StratUnit represents one stratigraphic unit record from us_table.
type StratUnit struct {
	ID              int     `gorm:"column:id_us;primaryKey" json:"id_us"`
	Sito            string  `gorm:"column:sito;index" json:"sito"`
	Area            *string `gorm:"column:area" json:"area"`
	US              *string `gorm:"column:us" json:"us"`
	DStratigrafica  *string `gorm:"column:d_stratigrafica" json:"d_stratigrafica"`
	DInterpretativa *string `gorm:"column:d_interpretativa" json:"d_interpretativa"`
	Descrizione     *string `gorm:"column:descrizione" json:"descrizione"`
	Interpretazione *string `gorm:"column:interpretazione" json:"interpretazione"`
	PeriodoIniziale *string `gorm:"column:periodo_iniziale" json:"periodo_iniziale"`
	FaseIniziale    *string `gorm:"column:fase_iniziale" json:"fase_iniziale"`
	PeriodoFinale   *string `gorm:"column:periodo_finale" json:"periodo_finale"`
	FaseFinale      *string `gorm:"column:fase_finale" json:"fase_finale"`
	Datazione       *string `gorm:"column:datazione" json:"datazione"`
	AnnoScavo       *string `gorm:"column:anno_scavo" json:"anno_scavo"`
	Scavato         *string `gorm:"column:scavato" json:"scavato"`
	UnitaTipo       *string `gorm:"column:unita_tipo" json:"unita_tipo"`
	Settore         *string `gorm:"column:settore" json:"settore"`
}

// TableName maps StratUnit to the pyArchInit table name.
func (StratUnit) TableName() string { return "us_table" }

// Material represents one materials inventory record from
// inventario_materiali_table. NrCassa and LuogoConservazione form the
// physical storage location of the item; both are nullable in the schema.
type Material struct {
	ID                 int      `gorm:"column:id_invmat;primaryKey" json:"id_invmat"`
	Sito               string   `gorm:"column:sito;index" json:"sito"`
	NumeroInventario   *int     `gorm:"column:numero_inventario" json:"numero_inventario"`
	TipoReperto        *string  `gorm:"column:tipo_reperto" json:"tipo_reperto"`
	Definizione        *string  `gorm:"column:definizione" json:"definizione"`
	Descrizione        *string  `gorm:"column:descrizione" json:"descrizione"`
	Area               *string  `gorm:"column:area" json:"area"`
	US                 *string  `gorm:"column:us" json:"us"`
	NrCassa            *int64   `gorm:"column:nr_cassa" json:"nr_cassa"`
	LuogoConservazione *string  `gorm:"column:luogo_conservazione" json:"luogo_conservazione"`
	StatoConservazione *string  `gorm:"column:stato_conservazione" json:"stato_conservazione"`
	DatazioneReperto   *string  `gorm:"column:datazione_reperto" json:"datazione_reperto"`
	Lavato             *string  `gorm:"column:lavato" json:"lavato"`
	TotaleFrammenti    *int     `gorm:"column:totale_frammenti" json:"totale_frammenti"`
	FormeMinime        *int     `gorm:"column:forme_minime" json:"forme_minime"`
	FormeMassime       *int     `gorm:"column:forme_massime" json:"forme_massime"`
	Peso               *float64 `gorm:"column:peso" json:"peso"`
	Repertato          *string  `gorm:"column:repertato" json:"repertato"`
	Diagnostico        *string  `gorm:"column:diagnostico" json:"diagnostico"`
}

// TableName maps Material to the pyArchInit table name.
func (Material) TableName() string { return "inventario_materiali_table" }

// Pottery represents one ceramic record from pottery_table.
type Pottery struct {
	ID           int      `gorm:"column:id_rep;primaryKey" json:"id_rep"`
	Sito         string   `gorm:"column:sito;index" json:"sito"`
	Area         *string  `gorm:"column:area" json:"area"`
	US           *string  `gorm:"column:us" json:"us"`
	IDNumber     *int     `gorm:"column:id_number" json:"id_number"`
	Box          *int     `gorm:"column:box" json:"box"`
	Photo        *string  `gorm:"column:photo" json:"photo"`
	Drawing      *string  `gorm:"column:drawing" json:"drawing"`
	Anno         *int     `gorm:"column:anno" json:"anno"`
	Fabric       *string  `gorm:"column:fabric" json:"fabric"`
	Material     *string  `gorm:"column:material" json:"material"`
	Form         *string  `gorm:"column:form" json:"form"`
	SpecificForm *string  `gorm:"column:specific_form" json:"specific_form"`
	Ware         *string  `gorm:"column:ware" json:"ware"`
	Munsell      *string  `gorm:"column:munsell" json:"munsell"`
	SurfTrat     *string  `gorm:"column:surf_trat" json:"surf_trat"`
	ExDeco       *string  `gorm:"column:exdeco" json:"exdeco"`
	IntDeco      *string  `gorm:"column:intdeco" json:"intdeco"`
	WheelMade    *string  `gorm:"column:wheel_made" json:"wheel_made"`
	Note         *string  `gorm:"column:note" json:"note"`
	DiametroMax  *float64 `gorm:"column:diametro_max" json:"diametro_max"`
	Qty          *int     `gorm:"column:qty" json:"qty"`
	Bag          *int     `gorm:"column:bag" json:"bag"`
	Sector       *string  `gorm:"column:sector" json:"sector"`
}

// TableName maps Pottery to the pyArchInit table name.
func (Pottery) TableName() string { return "pottery_table" }
