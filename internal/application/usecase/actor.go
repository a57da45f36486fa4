package usecase

import (
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/policy"
)

// Actor identidad autenticada junto con la decisión de política de la operación en curso.
// El middleware de autorización la construye; los casos de uso solo la aplican.
type Actor struct {
	Subject  policy.Subject
	Decision policy.Decision
}

// ActorFor evalúa la política para res/act y devuelve el actor resultante.
func ActorFor(s policy.Subject, res policy.Resource, act policy.Action) Actor {
	return Actor{Subject: s, Decision: policy.Evaluate(s, res, act)}
}

func (a Actor) require() error {
	if !a.Decision.Allowed {
		return domain.ErrForbidden
	}
	return nil
}

func (a Actor) ownerFilter() *int64 {
	return a.Decision.OwnerFilter(a.Subject)
}
