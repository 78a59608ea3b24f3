package utils

// Chunk делит items на последовательные части длиной не больше size.
// Порядок сохраняется, последняя часть может быть короче.
// Для пустого входа или size < 1 возвращает nil.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 || len(items) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		// ограничиваем capacity, чтобы append в части не затирал соседнюю
		chunks = append(chunks, items[start:end:end])
	}

	return chunks
}
