package inventory

import (
	"context"

	"github.com/dentalia/insumos-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción.
// Las validaciones de existencia y pertenencia se hacen con estos repos, dentro
// de la transacción, para que un borrado de catálogo concurrente no se cuele
// entre la validación y la mutación.
type TxRepos struct {
	Movements repository.StockMovementRepository
	Stock     repository.StockRepository
	Items     repository.ItemRepository
	Locations repository.LocationRepository
}

// TxBody es el cuerpo de una transacción del motor de movimientos.
type TxBody func(repos TxRepos) error

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza commit-o-rollback en todo camino de salida y resuelve
// por sí mismo los fallos transitorios del almacenamiento (reintento acotado);
// al caller solo le llegan errores de dominio o domain.ErrUnavailable.
type TxRunner interface {
	Run(ctx context.Context, fn TxBody) error
}
