package domain

import "context"

// UpdateFunc recebe o estado atual e devolve o próximo.
// Se retornar erro, nada é gravado e o erro volta intacto para quem chamou Update.
type UpdateFunc func(current []Message) ([]Message, error)

// MessageStore é a persistência do livro de visitas.
//
// Load nunca falha por documento ausente/corrompido (retorna lista vazia);
// falhas de I/O viram StorageError.
// Update executa o ciclo ler-modificar-gravar com exclusão mútua entre escritores
// e grava de forma atômica.
type MessageStore interface {
	Init(ctx context.Context) error
	Load(ctx context.Context) ([]Message, error)
	Update(ctx context.Context, fn UpdateFunc) error
}
