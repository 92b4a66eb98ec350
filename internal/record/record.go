// Package record builds the synthetic demographic records the workflow
// feeds into the target program's add-user flow. Records are materialized
// once at construction and served round-robin so the interaction loop
// never pays generation cost and every served record is pre-validated.
package record

import (
	"fmt"
	"math/rand"

	"github.com/loykin/hallfill/internal/idcard"
)

var (
	lastNames  = []string{"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴"}
	firstNames = []string{"伟", "芳", "娜", "敏", "静", "丽", "强", "磊", "军", "杰"}
	jobs       = []string{"工程师", "教师", "医生", "销售", "经理", "程序员"}
	cities     = []string{"北京市", "上海市", "广州市", "深圳市", "杭州市", "南京市"}
)

// PoolSize is the number of records pre-built per Generator.
const PoolSize = 500

const maxNameRunes = 6

// Record is one synthetic user. Immutable once generated.
type Record struct {
	Name    string
	Gender  string // 男 or 女
	Age     int    // 18..60, decorative; not derived from IDCard
	IDCard  string // 18-character identity number
	Job     string
	Address string
}

// Fields returns the record values in the fixed order the target program
// asks for them: name, gender, age, id number, job, address.
func (r Record) Fields() []string {
	return []string{r.Name, r.Gender, fmt.Sprintf("%d", r.Age), r.IDCard, r.Job, r.Address}
}

// Generator serves records from a fixed pre-built pool.
type Generator struct {
	pool  []Record
	index int
}

// New builds the full pool up front using the given random source.
func New(src rand.Source) *Generator {
	rng := rand.New(src)
	ids := idcard.New(rand.NewSource(rng.Int63()), nil)
	pool := make([]Record, PoolSize)
	for i := range pool {
		pool[i] = synthesize(rng, ids)
	}
	return &Generator{pool: pool}
}

// Get returns the next n records, advancing a cyclic index into the pool.
// It never fails and never regenerates; past PoolSize the pool repeats.
func (g *Generator) Get(n int) []Record {
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.pool[g.index])
		g.index = (g.index + 1) % len(g.pool)
	}
	return out
}

func synthesize(rng *rand.Rand, ids *idcard.Generator) Record {
	name := lastNames[rng.Intn(len(lastNames))] + firstNames[rng.Intn(len(firstNames))]
	if rng.Float64() > 0.3 {
		name += firstNames[rng.Intn(len(firstNames))]
	}
	name = truncateRunes(name, maxNameRunes)

	gender := "男"
	if rng.Intn(2) == 1 {
		gender = "女"
	}

	city := cities[rng.Intn(len(cities))]
	return Record{
		Name:    name,
		Gender:  gender,
		Age:     18 + rng.Intn(43),
		IDCard:  ids.Generate(),
		Job:     jobs[rng.Intn(len(jobs))],
		Address: fmt.Sprintf("%s中山路%d号", city, 1+rng.Intn(999)),
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
