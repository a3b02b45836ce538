package dto

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PageRequest paginación por limit/offset.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage normaliza la página: limit 0 toma el valor por defecto y se acota a 100.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = defaultPageLimit
	case p.Limit > maxPageLimit:
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Result metadatos de la página devuelta. Una página llena indica que puede haber más.
func (p PageRequest) Result(count int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Count: count, HasMore: p.Limit > 0 && count >= p.Limit}
}

// PageResponse metadatos de página en listados.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse cuerpo de error HTTP. Details lleva, por ejemplo, las líneas fallidas de un commit.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ReasonRequest motivo obligatorio para cancelar o rechazar un documento.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}
