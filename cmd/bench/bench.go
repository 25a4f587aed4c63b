// bench.go runs the five standard certified-deletion tests for each entry in
// the cartesian product of a collection of different scheme parameters, e.g.
// message length and acceptance threshold, and outputs a CSV of relevant
// statistics for each different combination, e.g. empirical versus expected
// success rates.
package main

import (
	"fmt"
	"html/template"
	"log"
	"math/rand"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/qdel-labs/certdel"
	"github.com/qdel-labs/certdel/backend"
	"github.com/qdel-labs/certdel/ecc"
	"github.com/qdel-labs/certdel/experiment"
)

var (
	n     = flag.IntSlice("n", []int{8}, "The message lengths to encrypt.")
	k     = flag.IntSlice("k", []int{12}, "The numbers of positions reserved for the deletion certificate.")
	s     = flag.IntSlice("s", []int{14}, "The numbers of positions padding the message; must be whole codewords.")
	tau   = flag.IntSlice("tau", []int{4}, "The lengths of the error-correction verification hash.")
	delta = flag.Float64Slice("delta", []float64{0.3}, "The acceptance threshold fractions for deletion certificates.")
	code  = flag.StringSlice("code", []string{"hamming_3"}, "The error-correcting codes to apply to the padding positions.")
	shots = flag.IntSlice("shots", []int{1024}, "The shots to run per test.")
	flip  = flag.Float64Slice("flip", []float64{0}, "The symmetric readout error probabilities to simulate.")
	seed  = flag.Int64("seed", 42, "The simulator seed; each parameterization reseeds for reproducibility.")
)

var (
	inputs  = []string{"n", "k", "s", "tau", "delta", "code", "shots", "flip"}
	columns = []string{"N", "K", "S", "Tau", "Mu", "Delta", "Code", "Shots", "Flip",
		"DeletionPct", "ExpectedDeletionPct", "DecryptionPct",
		"DeleteDecryptDeletionPct", "DeleteDecryptDecryptionPct",
		"BreidbartDeletionPct", "ExpectedBreidbartDeletionPct",
		"DecryptDeleteDecryptionPct", "DecryptDeleteDeletionPct", "Succeeded"}
)

// A Result packages together the outcome of benchmarking a single
// parameterization for easy formatting.
type Result struct {
	// Fields corresponding to scheme parameters
	N, K, S, Tau, Mu int
	Delta            float64
	Code             string
	Shots            int
	Flip             float64

	// Fields corresponding to measured and expected rates, in percent
	DeletionPct                  float64
	ExpectedDeletionPct          float64
	DecryptionPct                float64
	DeleteDecryptDeletionPct     float64
	DeleteDecryptDecryptionPct   float64
	BreidbartDeletionPct         float64
	ExpectedBreidbartDeletionPct float64
	DecryptDeleteDecryptionPct   float64
	DecryptDeleteDeletionPct     float64
	Succeeded                    bool
}

func main() {
	flag.Parse()
	fmt.Println(header())
	tmpl := template.Must(template.New("line").Parse(lineTmpl()))
	var args [][]interface{}
	for _, inp := range inputs {
		args = append(args, lookupInput(inp))
	}
	applyCartesian(func(args []interface{}) {
		res := &Result{
			N:     args[inpIndex("n")].(int),
			K:     args[inpIndex("k")].(int),
			S:     args[inpIndex("s")].(int),
			Tau:   args[inpIndex("tau")].(int),
			Delta: args[inpIndex("delta")].(float64),
			Code:  args[inpIndex("code")].(string),
			Shots: args[inpIndex("shots")].(int),
			Flip:  args[inpIndex("flip")].(float64),
		}
		if err := bench(res); err != nil {
			log.Printf("Benching %v: %v", res, err)
		}
		if err := tmpl.Execute(os.Stdout, res); err != nil {
			log.Fatalf("BUG: could not fill in line template: %v", err)
		}
	}, args)
}

func inpIndex(v string) int {
	for i, inp := range inputs {
		if inp == v {
			return i
		}
	}
	return -1
}

func bench(res *Result) error {
	c, err := ecc.ByName(res.Code)
	if err != nil {
		return err
	}
	res.Mu = c.SyndromeBits(res.S)
	params, err := certdel.NewSchemeParameters(1, res.N, res.K, res.S, res.Tau, res.Mu, res.Delta, res.Code)
	if err != nil {
		return err
	}
	r := rand.New(rand.NewSource(*seed))
	sim := backend.NewSimulator(r)
	sim.FlipProb = res.Flip
	props := experiment.Properties{
		ID:      fmt.Sprintf("n%d-k%d-s%d-d%v", res.N, res.K, res.S, res.Delta),
		Backend: "simulator",
		Shots:   res.Shots,
	}
	e, err := experiment.Run(props, params, r, sim)
	if err != nil {
		return err
	}
	t1 := e.Test1()
	res.DeletionPct = t1.SuccessRate()
	res.ExpectedDeletionPct = t1.ExpectedRate
	res.DecryptionPct = e.Test2().SuccessRate()
	t3 := e.Test3()
	res.DeleteDecryptDeletionPct = t3.Deletion.SuccessRate()
	res.DeleteDecryptDecryptionPct = t3.Decryption.SuccessRate()
	t4 := e.Test4()
	res.BreidbartDeletionPct = t4.Deletion.SuccessRate()
	res.ExpectedBreidbartDeletionPct = t4.Deletion.ExpectedRate
	t5 := e.Test5()
	res.DecryptDeleteDecryptionPct = t5.Decryption.SuccessRate()
	res.DecryptDeleteDeletionPct = t5.Deletion.SuccessRate()
	res.Succeeded = true
	return nil
}

func header() string {
	return strings.Join(columns, ", ")
}

func lineTmpl() string {
	var els []string
	for _, c := range columns {
		els = append(els, "{{."+c+"}}")
	}
	return strings.Join(els, ", ") + "\n"
}

func lookupInput(name string) []interface{} {
	var r []interface{}
	if v, err := flag.CommandLine.GetIntSlice(name); err == nil {
		for _, val := range v {
			r = append(r, val)
		}
	} else if v, err := flag.CommandLine.GetFloat64Slice(name); err == nil {
		for _, val := range v {
			r = append(r, val)
		}
	} else if v, err := flag.CommandLine.GetStringSlice(name); err == nil {
		for _, val := range v {
			r = append(r, val)
		}
	} else {
		log.Fatalf("Unknown type for input %s", name)
	}
	return r
}

func applyCartesian(f func([]interface{}), args [][]interface{}) {
	for i := range args {
		if len(args[i]) == 1 {
			continue
		}
		l := make([][]interface{}, len(args))
		r := make([][]interface{}, len(args))
		copy(l, args)
		copy(r, args)
		l[i] = args[i][:1]
		r[i] = args[i][1:]
		applyCartesian(f, l)
		applyCartesian(f, r)
		return
	}
	x := make([]interface{}, 0, len(args))
	for _, a := range args {
		x = append(x, a[0])
	}
	f(x)
}
