package deterministicmap

type Map[K comparable, V any] map[K]V
