package model

type Station struct {
	IDEESS             string   `gorm:"column:ideess;type:text;primaryKey"`
	Rotulo             string   `gorm:"column:rotulo;type:text"`
	Municipio          string   `gorm:"column:municipio;type:text;index"`
	Provincia          string   `gorm:"column:provincia;type:text;index"`
	Direccion          string   `gorm:"column:direccion;type:text"`
	PrecioGasolina95E5 string   `gorm:"column:precio_gasolina_95_e5;type:text"`
	PrecioGasoleoA     string   `gorm:"column:precio_gasoleo_a;type:text"`
	Gasolina95Value    *float64 `gorm:"column:gasolina_95_value;index"`
	Latitud            *float64 `gorm:"column:latitud"`
	Longitud           *float64 `gorm:"column:longitud"`
}

func (Station) TableName() string {
	return "gasolineras"
}
