// Package infra contém implementações concretas para os contratos do pacote domain.
//
// Exemplos:
//   - FileStore: documento JSON único com troca atômica (juju/utils) e escritor único
//   - BadgerStore: o mesmo documento guardado numa chave do BadgerDB
//   - LimiterStore: token bucket por IP usando golang.org/x/time/rate
//   - SlotPool: semáforo simples baseado em channel
//   - stats: memória, Redis e Prometheus
package infra
