package helper

import "fmt"

// SetUnionMerge 合并两个已按 cmp 排序的序列。
// 两侧相等的元素交给 merger 合并成一个，只出现在一侧的元素原样保留，
// 结果仍按 cmp 有序，长度等于两侧等价类的数量。
// 输入未排序属于调用方错误，直接 panic。
func SetUnionMerge[T any](a, b []T, cmp func(x, y T) int, merger func(x, y T) T) []T {
	assertSorted("first", a, cmp)
	assertSorted("second", b, cmp)

	out := make([]T, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) {
		if j == len(b) {
			return append(out, a[i:]...)
		}
		switch c := cmp(a[i], b[j]); {
		case c > 0:
			out = append(out, b[j])
			j++
		case c < 0:
			out = append(out, a[i])
			i++
		default:
			out = append(out, merger(a[i], b[j]))
			i++
			j++
		}
	}
	return append(out, b[j:]...)
}

func assertSorted[T any](which string, s []T, cmp func(x, y T) int) {
	for k := 1; k < len(s); k++ {
		if cmp(s[k-1], s[k]) > 0 {
			panic(fmt.Sprintf("SetUnionMerge: %s input is not sorted at index %d", which, k))
		}
	}
}
