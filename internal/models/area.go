package models

import "github.com/noah-isme/clima-laboral-api/pkg/textnorm"

// Area is a canonical work area name as stored and displayed.
type Area string

// AreaGeneral is the synthetic bucket that aggregates every submission.
const AreaGeneral Area = "GENERAL"

const (
	AreaAlmacenC               Area = "Almacén C"
	AreaAlmacenF               Area = "Almacén F"
	AreaAltoValor              Area = "Alto Valor"
	AreaEmpaqueTV              Area = "Empaque TV"
	AreaEmpaqueRetail          Area = "Empaque Retail"
	AreaRecibo                 Area = "Recibo"
	AreaDevoluciones           Area = "Devoluciones"
	AreaMensajeriaDistribucion Area = "Mensajería y Distribución"
	AreaTransportistas         Area = "Transportistas"
	AreaMaquila                Area = "Maquila"
	AreaPrevencionPerdidas     Area = "Prevención de Perdidas"
	AreaReacondicionado        Area = "Reacondicionado"
	AreaCalidad                Area = "Calidad"
	AreaMantenimiento          Area = "Mantenimiento"
)

var canonicalAreas = []Area{
	AreaAlmacenC,
	AreaAlmacenF,
	AreaAltoValor,
	AreaEmpaqueTV,
	AreaEmpaqueRetail,
	AreaRecibo,
	AreaDevoluciones,
	AreaMensajeriaDistribucion,
	AreaTransportistas,
	AreaMaquila,
	AreaPrevencionPerdidas,
	AreaReacondicionado,
	AreaCalidad,
	AreaMantenimiento,
}

var areaIndex = func() map[string]Area {
	idx := make(map[string]Area, len(canonicalAreas))
	for _, a := range canonicalAreas {
		idx[textnorm.Normalize(string(a))] = a
	}
	return idx
}()

// Areas returns the canonical areas in display order. The slice is a copy.
func Areas() []Area {
	out := make([]Area, len(canonicalAreas))
	copy(out, canonicalAreas)
	return out
}

// LookupArea resolves free-form input to a canonical area by normalized
// exact match.
func LookupArea(raw string) (Area, bool) {
	a, ok := areaIndex[textnorm.Normalize(raw)]
	return a, ok
}

// ParseAreaFilter accepts GENERAL (any case) or a canonical area.
func ParseAreaFilter(raw string) (Area, bool) {
	if raw == "" || textnorm.Normalize(raw) == "general" {
		return AreaGeneral, true
	}
	return LookupArea(raw)
}
