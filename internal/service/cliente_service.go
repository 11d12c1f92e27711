package service

import (
	"context"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
)

// ClienteService registers customers. Balances start at zero and only the
// ledgers move them afterwards.
type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
}

type clienteService struct {
	store repository.Store
}

func NewClienteService(store repository.Store) ClienteService {
	return &clienteService{store: store}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:    req.Nombre,
		Documento: req.Documento,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Activo:    true,
	}
	if err := s.store.Clientes().Create(ctx, c); err != nil {
		return nil, traducir(err, "cliente")
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.store.Clientes().FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "cliente")
	}
	return clienteToResponse(c), nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:                  c.ID.String(),
		Nombre:              c.Nombre,
		Documento:           c.Documento,
		Email:               c.Email,
		Telefono:            c.Telefono,
		PuntosFidelidad:     c.PuntosFidelidad,
		SaldoCashback:       c.SaldoCashback,
		CantidadCompras:     c.CantidadCompras,
		TotalCompras:        c.TotalCompras,
		TotalCashbackGanado: c.TotalCashbackGanado,
	}
}
