package estoque

import "fmt"

// ErroItemNaoEncontrado: retirada (ou adição não criadora) contra um modelo
// inexistente no estoque.
type ErroItemNaoEncontrado struct {
	Modelo string
}

func (e *ErroItemNaoEncontrado) Error() string {
	return fmt.Sprintf("Item '%s' não encontrado no estoque", e.Modelo)
}

// ErroEstoqueInsuficiente: retirada maior que o saldo disponível. Carrega os
// dois valores para que o operador possa corrigir o pedido.
type ErroEstoqueInsuficiente struct {
	Modelo     string
	Disponivel int
	Solicitado int
}

func (e *ErroEstoqueInsuficiente) Error() string {
	return fmt.Sprintf("Estoque insuficiente para '%s'. Disponível: %d, Solicitado: %d",
		e.Modelo, e.Disponivel, e.Solicitado)
}
