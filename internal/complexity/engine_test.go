package complexity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigocheck/internal/syntax"
)

func TestAnalyze_CPP(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "single additive loop",
			src:  `for (int i=0;i<n;i++) { sum += i; }`,
			want: "O(n)",
		},
		{
			name: "nested additive loops",
			src:  `for(int i=0;i<n;i++){ for(int j=0;j<n;j++){} }`,
			want: "O(n^2)",
		},
		{
			name: "halving while loop",
			src:  `while (n>1) { n = n/2; }`,
			want: "O(log n)",
		},
		{
			name: "double subtractive recursion",
			src:  `int f(int n){ if(n<=1) return 1; return f(n-1)+f(n-1); }`,
			want: "O(2^n)",
		},
		{
			name: "double halving recursion",
			src:  `int f(int n){ if(n<=1) return n; return f(n/2)+f(n/2); }`,
			want: "O(n log n)",
		},
		{
			name: "linear recursion",
			src:  `int fact(int n){ if(n<=1) return 1; return n*fact(n-1); }`,
			want: "O(n)",
		},
		{
			name: "triple subtractive recursion",
			src:  `int t(int n){ if(n<3) return 1; return t(n-1)+t(n-2)+t(n-3); }`,
			want: "O(3^n)",
		},
		{
			name: "multiplicative update clause",
			src:  `int f(int n){ int c = 0; for(int i=1;i<n;i*=2){ c++; } return c; }`,
			want: "O(log n)",
		},
		{
			name: "shift update clause",
			src:  `int f(int n){ int c = 0; for (int i = n; i > 0; i >>= 1) { c++; } return c; }`,
			want: "O(log n)",
		},
		{
			name: "binary search",
			src: `int bs(int* a, int n, int x){
				int lo = 0, hi = n - 1;
				while (lo <= hi) {
					int mid = (lo + hi) / 2;
					if (a[mid] == x) return mid;
					if (a[mid] < x) lo = mid + 1; else hi = mid - 1;
				}
				return -1;
			}`,
			want: "O(log n)",
		},
		{
			name: "do while halving",
			src:  `void f(int n){ do { n = n / 2; } while (n > 1); }`,
			want: "O(log n)",
		},
		{
			name: "linear loop with halving recursion",
			src:  `int g(int* a, int n){ if(n<=1) return 0; for(int i=0;i<n;i++){ a[i]++; } return g(a, n/2); }`,
			want: "O(n log n)",
		},
		{
			name: "sequential loops do not multiply",
			src:  `void f(int n){ for(int i=0;i<n;i++){} for(int j=0;j<n;j++){} }`,
			want: "O(n)",
		},
		{
			name: "log factor nested in quadratic loops",
			src: `void f(int n){
				for (int i = 0; i < n; i++)
					for (int j = 0; j < n; j++)
						for (int k = 1; k < n; k *= 2) {}
			}`,
			want: "O(n^2 log n)",
		},
		{
			name: "merge sort shape",
			src: `void ms(int* a, int lo, int hi){
				if (lo >= hi) return;
				int mid = lo + (hi - lo) / 2;
				ms(a, lo, mid);
				ms(a, mid + 1, hi);
				for (int i = lo; i <= hi; i++) {}
			}`,
			want: "O(n * n log n)",
		},
		{
			name: "straight line code",
			src:  `int add(int a, int b){ return a + b; }`,
			want: "O(1)",
		},
		{
			name: "comment only",
			src:  "// nothing to see here\n",
			want: "O(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseCPP(t, tt.src)
			assert.Equal(t, tt.want, Analyze(root))
		})
	}
}

func TestAnalyze_GlobalMaxima(t *testing.T) {
	// The divide count of one function and the subtract count of another are
	// combined as if they came from the same function.
	root := parseCPP(t, `
		int half(int n){ if(n<=1) return 0; return half(n/2) + half(n/2); }
		int dec(int n){ if(n<=1) return 0; return dec(n-1) + dec(n-1); }
	`)
	assert.Equal(t, "O(n log n)", Analyze(root))
}

func TestAnalyze_Pure(t *testing.T) {
	root := parseCPP(t, `int f(int n){ for(int i=0;i<n;i++){} return f(n-1); }`)
	first := Analyze(root)
	assert.Equal(t, first, Analyze(root))
	assert.Equal(t, "O(n)", first)
}

func TestEngine_Analyze_Functions(t *testing.T) {
	root := parseCPP(t, `int sum(int* a, int n){
	int s = 0;
	for (int i = 0; i < n; i++) { s += a[i]; }
	return s;
}

int fib(int n){
	if (n < 2) return n;
	return fib(n - 1) + fib(n - 2);
}
`)
	res := NewEngine(DefaultOptions()).Analyze(root)

	require.Len(t, res.Functions, 2)
	assert.Equal(t, "O(n * 2^n)", res.Label)
	assert.Equal(t, "O(n)", res.LoopLabel)
	assert.Equal(t, "O(2^n)", res.RecursionLabel)

	sum := res.Functions[0]
	assert.Equal(t, "sum", sum.Record.Name)
	assert.False(t, sum.Record.IsRecursive)
	assert.Equal(t, 1, sum.Line)
	assert.Equal(t, "O(n)", sum.Label)

	fib := res.Functions[1]
	assert.Equal(t, FunctionRecord{Name: "fib", IsRecursive: true, SubtractCount: 2}, fib.Record)
	assert.Equal(t, 7, fib.Line)
	assert.Equal(t, "O(2^n)", fib.Label)
}

func TestEngine_TopLevelStatementsDisabled(t *testing.T) {
	root := parseCPP(t, `for (int i=0;i<n;i++) { sum += i; }`)
	res := NewEngine(Options{TopLevelStatements: false}).Analyze(root)
	assert.Equal(t, "O(1)", res.Label)
	assert.Empty(t, res.Functions)
}

func TestEngine_NilRoot(t *testing.T) {
	res := NewEngine(DefaultOptions()).Analyze(nil)
	assert.Equal(t, Constant, res.Label)
}

func TestAnalyze_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	labels := make([]string, 16)
	for i := range labels {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fn := function("f", block(
				countingLoop("i", "n", block(countingLoop("j", "n", block()))),
				returnStmt(call("f", binary(ident("n"), "-", num("1")))),
			))
			labels[i] = Analyze(syntax.NewMem("translation_unit", "", fn))
		}(i)
	}
	wg.Wait()
	for _, label := range labels {
		assert.Equal(t, "O(n^2 * n)", label)
	}
}
