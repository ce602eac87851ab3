// Package domain define os tipos e contratos do livro de visitas.
//
// Este pacote não depende de net/http nem de implementações concretas de
// armazenamento. Mensagens, limites, erros e as interfaces de store/stats
// vivem aqui para que application e infra possam ser testadas isoladamente.
package domain
