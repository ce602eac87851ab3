// Package guestbook fornece o adapter HTTP (net/http) do livro de visitas.
//
// Visão geral (camadas):
//
//   - domain: tipos, limites, erros e contratos (sem net/http)
//   - application: casos de uso (listar, postar, decisão do flood guard) sem net/http
//   - infra: implementações concretas (arquivo JSON, Badger, token bucket, stats)
//   - guestbook (este pacote): handler HTTP, resolução de IP, CORS/JSONP e middlewares
//
// Fluxo de um POST:
//
//  1. Resolve o IP do cliente (headers de proxy > conexão, só IP público)
//  2. Lê o payload (JSON ou, em JSONP, query string)
//  3. Chama application.Service.Submit
//  4. Traduz o resultado para o envelope {"success": ...} (400 ou 200 em JSONP)
//
// Variáveis de ambiente do binário (cmd/guestbook) controlam caminhos e limites,
// como DATA_FILE, RATE_LIMIT_WINDOW, FLOOD_RPS e CONCURRENCY_MAX.
package guestbook
