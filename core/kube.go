package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/project-sunbird/sunbird-deploy/poller"
)

// KubeClient wraps the typed clientset for the reads and idempotent creates
// the pipeline needs. Rollout operations stay as kubectl shell-outs (see
// RestartWorkload) since kubectl already implements the wait semantics.
type KubeClient struct {
	clientset kubernetes.Interface
}

// NewKubeClient builds a client from the given kubeconfig path, falling back
// to the default loading rules (KUBECONFIG, ~/.kube/config) when empty.
func NewKubeClient(kubeconfig string) (*KubeClient, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	restCfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("cannot load kubeconfig: %w", err)
	}
	cs, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("cannot build kubernetes client: %w", err)
	}
	return &KubeClient{clientset: cs}, nil
}

// NewKubeClientFor wraps an existing clientset (used by tests with the fake
// clientset).
func NewKubeClientFor(cs kubernetes.Interface) *KubeClient {
	return &KubeClient{clientset: cs}
}

// ConfigValue reads one field from a named config map.
func (k *KubeClient) ConfigValue(ctx context.Context, namespace, name, key string) (string, error) {
	cm, err := k.clientset.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("cannot read config map %s/%s: %w", namespace, name, err)
	}
	val, ok := cm.Data[key]
	if !ok {
		return "", fmt.Errorf("config map %s/%s has no key %q", namespace, name, key)
	}
	return val, nil
}

// EnsureNamespace creates the namespace if it does not exist. An existing
// namespace is success, not an error.
func (k *KubeClient) EnsureNamespace(ctx context.Context, name string) error {
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	_, err := k.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot create namespace %s: %w", name, err)
	}
	return nil
}

// EnsureConfigMap creates the config map with the given data if it is
// missing. An existing map is left untouched so values written by the
// platform charts survive re-runs.
func (k *KubeClient) EnsureConfigMap(ctx context.Context, namespace, name string, data map[string]string) error {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Data:       data,
	}
	_, err := k.clientset.CoreV1().ConfigMaps(namespace).Create(ctx, cm, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot create config map %s/%s: %w", namespace, name, err)
	}
	return nil
}

// UnhealthyPods returns the pods in the namespace whose phase is outside the
// accepted set. Running and Succeeded are accepted; Succeeded is what
// kubectl renders as Completed.
func (k *KubeClient) UnhealthyPods(ctx context.Context, namespace string) ([]string, error) {
	pods, err := k.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("cannot list pods in %s: %w", namespace, err)
	}
	var bad []string
	for _, p := range pods.Items {
		switch p.Status.Phase {
		case corev1.PodRunning, corev1.PodSucceeded:
		default:
			bad = append(bad, fmt.Sprintf("%s (%s)", p.Name, p.Status.Phase))
		}
	}
	return bad, nil
}

// PodHealthCheck returns a readiness predicate that holds when no pod in the
// namespace is outside the accepted phases.
func (k *KubeClient) PodHealthCheck(namespace string) poller.Check {
	return func(ctx context.Context) (bool, string, error) {
		bad, err := k.UnhealthyPods(ctx, namespace)
		if err != nil {
			return false, "", err
		}
		if len(bad) == 0 {
			return true, "all pods Running or Completed", nil
		}
		return false, fmt.Sprintf("%d pod(s) not ready: %s", len(bad), strings.Join(bad, ", ")), nil
	}
}

// RestartWorkload triggers a rolling restart of a deployment via kubectl.
func RestartWorkload(namespace, deployment string) error {
	if err := Run("kubectl", "rollout", "restart", "deployment/"+deployment, "-n", namespace); err != nil {
		return fmt.Errorf("rollout restart of %s failed: %w", deployment, err)
	}
	return nil
}

// WaitForRollout blocks until the deployment's rollout completes or the
// timeout expires.
func WaitForRollout(namespace, deployment string, timeout time.Duration) error {
	if err := Run("kubectl", "rollout", "status", "deployment/"+deployment,
		"-n", namespace, "--timeout", timeout.String()); err != nil {
		return fmt.Errorf("rollout of %s did not complete: %w", deployment, err)
	}
	return nil
}
