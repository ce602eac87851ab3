// Package application contém os casos de uso do livro de visitas.
//
// Ele depende apenas do pacote domain (e de libs utilitárias) e não conhece net/http.
// Ex.: Service.Submit sanitiza, valida, aplica o rate limit por IP e grava;
// Throttle.Decide decide allow/deny do flood guard.
package application
