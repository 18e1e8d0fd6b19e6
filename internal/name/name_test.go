package name

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// namesA and namesB form a name-equality truth table: namesB[i] gives a
// name plus, for each entry in namesA, whether the two are expected to be
// equal.
var namesA = []string{
	"murray",
	"murray, s.",
	"murray, s. s.",
	"murray, s. steve",
	"murray, stephen",
	"murray, stephen s.",
	"murray, stephen steve",
	"murray, stephen steve q.",
}

type namesBRow struct {
	name string
	eq   [8]bool
}

var namesB = []namesBRow{
	{"murray", [8]bool{true, true, true, true, true, true, true, true}},
	{"Murray", [8]bool{true, true, true, true, true, true, true, true}},
	{"murrayer", [8]bool{false, false, false, false, false, false, false, false}},
	{"M", [8]bool{false, false, false, false, false, false, false, false}},
	{"murray, s", [8]bool{true, true, true, true, true, true, true, true}},
	{"Murray, S.", [8]bool{true, true, true, true, true, true, true, true}},
	{"Burray, s.", [8]bool{false, false, false, false, false, false, false, false}},
	{"murray, e", [8]bool{true, false, false, false, false, false, false, false}},
	{"murray, e.", [8]bool{true, false, false, false, false, false, false, false}},
	{"murray, s s", [8]bool{true, true, true, true, true, true, true, true}},
	{"Murray, S. s.", [8]bool{true, true, true, true, true, true, true, true}},
	{"Burray, s. s.", [8]bool{false, false, false, false, false, false, false, false}},
	{"murray, e s", [8]bool{true, false, false, false, false, false, false, false}},
	{"murray, s e", [8]bool{true, true, false, false, true, false, false, false}},
	{"murray, stephen", [8]bool{true, true, true, true, true, true, true, true}},
	{"burray, stephen", [8]bool{false, false, false, false, false, false, false, false}},
	{"murray, eva", [8]bool{true, false, false, false, false, false, false, false}},
	{"murray, stephen s", [8]bool{true, true, true, true, true, true, true, true}},
	{"murray, stephen e", [8]bool{true, true, false, false, true, false, false, false}},
	{"burray, stephen s", [8]bool{false, false, false, false, false, false, false, false}},
	{"murray, stephen s z", [8]bool{true, true, true, true, true, true, true, false}},
	{"burray, stephen s q", [8]bool{false, false, false, false, false, false, false, false}},
	{"murray, eva s", [8]bool{true, false, false, false, false, false, false, false}},
	{"murray, stephen steve", [8]bool{true, true, true, true, true, true, true, true}},
	{"murray, stephen eva", [8]bool{true, true, false, false, true, false, false, false}},
	{"burray, stephen steve", [8]bool{false, false, false, false, false, false, false, false}},
}

func TestEquality(t *testing.T) {
	sp := NewSpace()
	a := make([]*Name, len(namesA))
	for i, raw := range namesA {
		n, err := sp.Parse(raw)
		require.NoError(t, err)
		a[i] = n
	}

	for _, row := range namesB {
		b, err := sp.Parse(row.name)
		require.NoError(t, err)
		for i, want := range row.eq {
			got := b.Equal(a[i])
			assert.Equalf(t, want, got, "%q == %q", row.name, namesA[i])
			assert.Equalf(t, want, a[i].Equal(b), "%q == %q (reversed)", namesA[i], row.name)
		}
	}
}

func TestExactEquality(t *testing.T) {
	sp := NewSpace()
	for i := range namesA {
		aName, err := sp.Parse("=" + namesA[i])
		require.NoError(t, err)

		self, err := sp.Parse(namesA[i])
		require.NoError(t, err)
		assert.True(t, aName.Equal(self))
		assert.True(t, aName.Equal(aName))

		for j := range namesA {
			if i == j {
				continue
			}
			other, err := sp.Parse(namesA[j])
			require.NoError(t, err)
			assert.False(t, other.Equal(aName), "namesA[%d] should not equal =namesA[%d]", j, i)
		}
	}
}

func TestSpecificityEquality(t *testing.T) {
	sp := NewSpace()
	for i, name1 := range namesA {
		lt, err := sp.Parse("<" + name1)
		require.NoError(t, err)
		gt, err := sp.Parse(">" + name1)
		require.NoError(t, err)
		lte, err := sp.Parse("<=" + name1)
		require.NoError(t, err)
		gte, err := sp.Parse(">=" + name1)
		require.NoError(t, err)

		assert.False(t, lt.Equal(lt))
		assert.False(t, gt.Equal(gt))
		assert.False(t, lt.Equal(gt))
		assert.False(t, gt.Equal(lt))

		assert.True(t, lte.Equal(lte))
		assert.True(t, gte.Equal(gte))
		assert.True(t, lte.Equal(gte))
		assert.True(t, gte.Equal(lte))

		assert.False(t, lte.Equal(lt))
		assert.False(t, gte.Equal(gt))
		assert.False(t, lte.Equal(gt))
		assert.False(t, gte.Equal(lt))

		assert.False(t, lt.Equal(lte))
		assert.False(t, gt.Equal(gte))
		assert.False(t, lt.Equal(gte))
		assert.False(t, gt.Equal(lte))

		for j, name2raw := range namesA {
			name2, err := sp.Parse(name2raw)
			require.NoError(t, err)
			if i == j {
				assert.False(t, lt.Equal(name2))
				assert.False(t, name2.Equal(lt))
				assert.False(t, gt.Equal(name2))
				assert.False(t, name2.Equal(gt))

				assert.True(t, lte.Equal(name2))
				assert.True(t, name2.Equal(lte))
				assert.True(t, gte.Equal(name2))
				assert.True(t, name2.Equal(gte))
			}
		}
	}
}

func TestParsingNormalization(t *testing.T) {
	sp := NewSpace()
	variants := []string{
		"Bailey, Jean-Luc",
		"BAILEY, Jean Luc",
		"  Bailey ,   Jean-Luc  ",
		"Bailey, Jean.Luc",
	}
	var forms []*Name
	for _, v := range variants {
		n, err := sp.Parse(v)
		require.NoError(t, err)
		forms = append(forms, n)
	}
	for i := 1; i < len(forms); i++ {
		assert.Equal(t, forms[0].QualifiedFullName(), forms[i].QualifiedFullName(), variants[i])
	}
}

func TestModifierPrefixCanonicalForm(t *testing.T) {
	sp := NewSpace()
	for _, raw := range []string{"<=Last, F", "=<Last, F"} {
		n, err := sp.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "<=last, f.", n.QualifiedFullName())
	}
}

func TestModifierPrefixConflictsRejected(t *testing.T) {
	sp := NewSpace()
	for _, raw := range []string{"<>Last, F", "@=Last, F", "@<Last, F"} {
		_, err := sp.Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestEmptyLastNameRejected(t *testing.T) {
	sp := NewSpace()
	_, err := sp.Parse(" , Jean")
	require.Error(t, err)
	var invalid *InvalidName
	require.ErrorAs(t, err, &invalid)
}

func TestSynonyms(t *testing.T) {
	sp := NewSpace()
	err := sp.LoadSynonymLines([]string{"van kooten, stephen a; vankooten, s"})
	require.NoError(t, err)

	a, err := sp.Parse("van kooten, stephen a")
	require.NoError(t, err)
	b, err := sp.Parse("vankooten, s")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	aAt, err := sp.Parse("@van kooten, stephen a")
	require.NoError(t, err)
	assert.False(t, aAt.Equal(b))
}

func TestLevelOfDetail(t *testing.T) {
	sp := NewSpace()
	full, err := sp.Parse("last, first middle")
	require.NoError(t, err)
	assert.Equal(t, 20, full.LevelOfDetail())

	initials, err := sp.Parse("last, f m")
	require.NoError(t, err)
	assert.Equal(t, 6, initials.LevelOfDetail())

	bare, err := sp.Parse("last")
	require.NoError(t, err)
	assert.Equal(t, 0, bare.LevelOfDetail())
}
