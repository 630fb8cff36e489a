package vision

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Paths lists the Caffe artifacts the registry loads.
type Paths struct {
	DetectorProto string
	DetectorModel string
	AgeProto      string
	AgeModel      string
	GenderProto   string
	GenderModel   string
}

func DefaultPaths(modelDir string) Paths {
	return Paths{
		DetectorProto: filepath.Join(modelDir, "face_detector", "deploy.prototxt"),
		DetectorModel: filepath.Join(modelDir, "face_detector", "res10_300x300_ssd_iter_140000.caffemodel"),
		AgeProto:      filepath.Join(modelDir, "age", "age_deploy.prototxt"),
		AgeModel:      filepath.Join(modelDir, "age", "age_net.caffemodel"),
		GenderProto:   filepath.Join(modelDir, "gender", "gender_deploy.prototxt"),
		GenderModel:   filepath.Join(modelDir, "gender", "gender_net.caffemodel"),
	}
}

// guardedNet serializes access to a Net, which keeps its input blob as state.
type guardedNet struct {
	mu  sync.Mutex
	net gocv.Net
}

func (g *guardedNet) forward(blob gocv.Mat) gocv.Mat {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.net.SetInput(blob, "")
	return g.net.Forward("")
}

type Registry struct {
	detector *guardedNet
	age      *guardedNet
	gender   *guardedNet
}

// Load reads the three networks. Any failure closes what was already loaded
// and reports which artifact is at fault.
func Load(paths Paths, log *logrus.Logger) (*Registry, error) {
	r := &Registry{}

	specs := []struct {
		name   string
		proto  string
		model  string
		target **guardedNet
	}{
		{"face detector", paths.DetectorProto, paths.DetectorModel, &r.detector},
		{"age classifier", paths.AgeProto, paths.AgeModel, &r.age},
		{"gender classifier", paths.GenderProto, paths.GenderModel, &r.gender},
	}

	for _, s := range specs {
		net, err := readCaffe(s.name, s.proto, s.model)
		if err != nil {
			r.Close()
			return nil, err
		}
		*s.target = &guardedNet{net: net}

		log.WithFields(logrus.Fields{
			"model": s.name,
			"proto": s.proto,
		}).Info("Model loaded")
	}

	return r, nil
}

func readCaffe(name, proto, model string) (gocv.Net, error) {
	for _, p := range []string{proto, model} {
		if _, err := os.Stat(p); err != nil {
			return gocv.Net{}, fmt.Errorf("load %s: %w", name, err)
		}
	}

	net := gocv.ReadNetFromCaffe(proto, model)
	if net.Empty() {
		return gocv.Net{}, fmt.Errorf("load %s: empty network from %s and %s", name, proto, model)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return net, nil
}

func (r *Registry) Close() {
	for _, g := range []*guardedNet{r.detector, r.age, r.gender} {
		if g == nil {
			continue
		}
		g.mu.Lock()
		g.net.Close()
		g.mu.Unlock()
	}
}
